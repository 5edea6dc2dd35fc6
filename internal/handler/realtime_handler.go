package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/realtime"
)

type relay interface {
	Serve(ctx context.Context, client realtime.Conn)
}

type RealtimeHandler struct {
	relay    relay
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(r relay) *RealtimeHandler {
	return &RealtimeHandler{
		relay: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and blocks until the session ends.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logutil.GetLogger(c.Request.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.relay.Serve(c.Request.Context(), conn)
}
