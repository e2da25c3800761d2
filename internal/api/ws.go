package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already serves permissive CORS; the websocket follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// handleAlertStream upgrades the connection and pushes newly raised alerts to
// the clinician as they happen. The connection closes when the client goes
// away or the subscription is torn down.
func (s *Server) handleAlertStream(c *gin.Context) {
	if _, ok := s.requireDoctor(c); !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	alerts, cancel := s.alerts.Subscribe()
	defer cancel()
	defer conn.Close()

	// Drain client frames so close and pong messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case alert, open := <-alerts:
			if !open {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(alert); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
