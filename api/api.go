package api

import (
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/hoshinonyaruko/snake-in-term/memimg"
	"github.com/hoshinonyaruko/snake-in-term/render"
	"github.com/hoshinonyaruko/snake-in-term/sqlite"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// EventSource is where the session events come from.
type EventSource interface {
	Events(sessionID string) ([]structs.Event, error)
}

// SessionSource looks up the stored summary of a session.
type SessionSource interface {
	GetSession(sessionID string) (*sqlite.Session, error)
}

// Spectator serves a read-only view of the running game.
type Spectator struct {
	Store     *memimg.Store
	Events    EventSource
	Sessions  SessionSource
	SessionID string
	BlockSize int
}

// NewRouter builds the spectator routes. Access logs go to logOut.
func NewRouter(s *Spectator, logOut io.Writer) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logOut), gin.Recovery())

	// 当前状态
	router.GET("/state", s.StateHandler())
	// 渲染函数 返回 PNG
	router.GET("/render-map", s.RenderMapHandler())
	// 会话日志
	router.GET("/events", s.EventsHandler())
	router.GET("/events.csv", s.EventsCSVHandler())
	// 会话摘要
	router.GET("/session", s.SessionHandler())
	// 实时推送
	router.GET("/ws", s.StreamHandler())
	return router
}

func (s *Spectator) StateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, version := s.Store.Latest()
		if version == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no frame rendered yet"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func (s *Spectator) RenderMapHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		blockSize := s.BlockSize
		if v := c.Query("blocksize"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "blocksize must be between 1 and 100"})
				return
			}
			blockSize = n
		}
		width, _ := strconv.Atoi(c.DefaultQuery("width", "0"))

		img, ok := s.Store.GetImage(blockSize)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no frame rendered yet"})
			return
		}
		img = render.Thumbnail(img, width)

		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := imaging.Encode(c.Writer, img, imaging.PNG); err != nil {
			log.Printf("encode frame png: %v", err)
		}
	}
}

func (s *Spectator) EventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := s.Events.Events(s.SessionID)
		if err != nil {
			log.Printf("load events: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": s.SessionID, "events": events})
	}
}

func (s *Spectator) EventsCSVHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := s.Events.Events(s.SessionID)
		if err != nil {
			log.Printf("load events: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load events"})
			return
		}
		data, err := gocsv.MarshalBytes(&events)
		if err != nil {
			log.Printf("marshal events csv: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode events"})
			return
		}
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}

func (s *Spectator) SessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.Sessions.GetSession(s.SessionID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			log.Printf("load session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load session"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
