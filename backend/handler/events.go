package handler

import (
	"net/http"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Events streams every snapshot of a workflow over a WebSocket. The first
// message is the current snapshot; the stream ends when the workflow or
// the client goes away.
func (h *SessionHandler) Events(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := wf.Subscribe()
	defer unsubscribe()

	// the client only sends control frames; reading detects the close
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()
	logger.Debug(ctx, "snapshot stream opened", "entity", wf.Entity())
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "workflow closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := send(conn, snap); err != nil {
				logger.Debug(ctx, "snapshot stream write failed", "error", err)
				return
			}
		case <-gone:
			logger.Debug(ctx, "snapshot stream closed by client", "entity", wf.Entity())
			return
		}
	}
}

func send(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
