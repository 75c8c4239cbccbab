package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"duelrelay/internal/services/dispatch"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled outside this core
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to websocket connections and binds
// their lifecycle to the dispatcher: register on upgrade, feed frames
// in arrival order, cascade teardown exactly once on close.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a websocket handler over the dispatcher
func NewHandler(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP handles one client connection for its entire life
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(conn, h.logger)
	ctx := context.WithoutCancel(r.Context())

	h.dispatcher.Connect(client)
	defer h.dispatcher.Disconnect(ctx, client)

	go client.writePump()

	// Blocks until the connection drops; frames from one connection
	// are handled strictly in arrival order
	client.readPump(func(data []byte) {
		h.dispatcher.Handle(ctx, client, data)
	})
}
