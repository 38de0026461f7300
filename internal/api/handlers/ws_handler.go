package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	ws "github.com/frknlke/eluvium-backend/internal/websocket"
)

// WSHandler upgrades HTTP connections and attaches clients to the hub
type WSHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Serve handles GET /ws. Origin validation happens inside the upgrader;
// a rejected origin fails the upgrade before any client state exists.
func (h *WSHandler) Serve(c echo.Context) error {
	upgrader := ws.NewSecureUpgrader(h.logger)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		}
		return nil
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
