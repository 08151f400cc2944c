package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-in-term/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS Sessions (
    SessionID TEXT PRIMARY KEY,
    MapWidth INTEGER,
    MapHeight INTEGER,
    StartedAt TIMESTAMP,
    EndedAt TIMESTAMP,
    FinalScore INTEGER,
    EndReason TEXT
);
`

const createEventsTableSQL = `
CREATE TABLE IF NOT EXISTS Events (
    ID INTEGER PRIMARY KEY AUTOINCREMENT,
    SessionID TEXT,
    Frame INTEGER,
    Kind TEXT,
    X INTEGER,
    Y INTEGER,
    Score INTEGER,
    Reason TEXT
);
`

const createEventsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_event_session ON Events (SessionID);
`

// Journal is a per-process, memory-only log of game sessions.
type Journal struct {
	db *sql.DB
}

// Open creates the in-memory journal database
func Open() (*Journal, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// 每个连接都是独立的内存库，只保留一个
	db.SetMaxOpenConns(1)

	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createSessionsTableSQL, createEventsTableSQL, createEventsIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordEvent 写入一条事件，start 和 end 同时维护 Sessions 表
func (j *Journal) RecordEvent(event structs.Event) error {
	// 开启事务
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT INTO Events (SessionID, Frame, Kind, X, Y, Score, Reason) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.SessionID, event.Frame, string(event.Kind), event.X, event.Y, event.Score, string(event.Reason))
	if err != nil {
		tx.Rollback()
		return err
	}

	switch event.Kind {
	case structs.EventStart:
		_, err = tx.Exec("INSERT OR IGNORE INTO Sessions (SessionID, StartedAt, FinalScore, EndReason) VALUES (?, ?, 0, ?)",
			event.SessionID, time.Now(), string(structs.EndNone))
	case structs.EventEnd:
		_, err = tx.Exec("UPDATE Sessions SET EndedAt = ?, FinalScore = ?, EndReason = ? WHERE SessionID = ?",
			time.Now(), event.Score, string(event.Reason), event.SessionID)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	// 提交事务
	return tx.Commit()
}

// BeginSession registers a session together with its grid size
func (j *Journal) BeginSession(sessionID string, width, height int) error {
	_, err := j.db.Exec("INSERT OR REPLACE INTO Sessions (SessionID, MapWidth, MapHeight, StartedAt, FinalScore, EndReason) VALUES (?, ?, ?, ?, 0, ?)",
		sessionID, width, height, time.Now(), string(structs.EndNone))
	return err
}

// Events returns the events of a session in insertion order
func (j *Journal) Events(sessionID string) ([]structs.Event, error) {
	rows, err := j.db.Query("SELECT SessionID, Frame, Kind, X, Y, Score, Reason FROM Events WHERE SessionID = ? ORDER BY ID", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []structs.Event{}
	for rows.Next() {
		var e structs.Event
		var kind, reason string
		if err := rows.Scan(&e.SessionID, &e.Frame, &kind, &e.X, &e.Y, &e.Score, &reason); err != nil {
			return nil, err
		}
		e.Kind = structs.EventKind(kind)
		e.Reason = structs.EndReason(reason)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Session summarizes one game
type Session struct {
	SessionID  string            `json:"session_id"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	FinalScore int               `json:"final_score"`
	EndReason  structs.EndReason `json:"end_reason"`
}

// GetSession loads the summary of a session
func (j *Journal) GetSession(sessionID string) (*Session, error) {
	var s Session
	var width, height sql.NullInt64
	var reason string
	err := j.db.QueryRow("SELECT SessionID, MapWidth, MapHeight, FinalScore, EndReason FROM Sessions WHERE SessionID = ?", sessionID).Scan(
		&s.SessionID, &width, &height, &s.FinalScore, &reason,
	)
	if err != nil {
		return nil, err
	}
	s.Width = int(width.Int64)
	s.Height = int(height.Int64)
	s.EndReason = structs.EndReason(reason)
	return &s, nil
}
