package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 只读的观战接口，不校验来源
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler pushes the snapshot as JSON every time a new frame is
// published. The stream ends after the final frame of the game.
func (s *Spectator) StreamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		closed := make(chan struct{})
		go readPump(conn, closed)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		var sent uint64
		for {
			changed := s.Store.Changed()
			snapshot, version := s.Store.Latest()
			if version != sent && version != 0 {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(snapshot); err != nil {
					return
				}
				sent = version
				if snapshot.State == structs.Terminated {
					conn.SetWriteDeadline(time.Now().Add(writeWait))
					conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, "game over"))
					return
				}
			}

			select {
			case <-changed:
			case <-closed:
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(ws.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// readPump discards client messages and reports when the peer goes away.
func readPump(conn *ws.Conn, closed chan struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseAbnormalClosure) {
				log.Printf("error during websocket pump: %v", err)
			}
			return
		}
	}
}
