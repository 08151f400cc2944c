package sqlite

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/hoshinonyaruko/snake-in-term/structs"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open()
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordEvents(t *testing.T) {
	j := openJournal(t)
	if err := j.BeginSession("s1", 40, 20); err != nil {
		t.Fatal(err)
	}

	events := []structs.Event{
		{SessionID: "s1", Frame: 0, Kind: structs.EventStart, X: 20, Y: 10, Reason: structs.EndNone},
		{SessionID: "s1", Frame: 3, Kind: structs.EventEat, X: 23, Y: 10, Score: 1, Reason: structs.EndNone},
		{SessionID: "s1", Frame: 9, Kind: structs.EventEnd, X: 38, Y: 10, Score: 1, Reason: structs.EndWall},
		{SessionID: "other", Frame: 0, Kind: structs.EventStart},
	}
	for _, e := range events {
		if err := j.RecordEvent(e); err != nil {
			t.Fatalf("record %s: %v", e.Kind, err)
		}
	}

	got, err := j.Events("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i := range got {
		if got[i] != events[i] {
			t.Errorf("event %d: expected %+v, got %+v", i, events[i], got[i])
		}
	}

	s, err := j.GetSession("s1")
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 40 || s.Height != 20 || s.FinalScore != 1 || s.EndReason != structs.EndWall {
		t.Errorf("unexpected session summary %+v", s)
	}
}

func TestStartWithoutBegin(t *testing.T) {
	j := openJournal(t)
	if err := j.RecordEvent(structs.Event{SessionID: "s2", Kind: structs.EventStart, Reason: structs.EndNone}); err != nil {
		t.Fatal(err)
	}
	s, err := j.GetSession("s2")
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 0 || s.EndReason != structs.EndNone {
		t.Errorf("unexpected session summary %+v", s)
	}
}

func TestUnknownSession(t *testing.T) {
	j := openJournal(t)

	events, err := j.Events("missing")
	if err != nil || len(events) != 0 {
		t.Errorf("expected no events, got %v, %v", events, err)
	}
	if _, err := j.GetSession("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
