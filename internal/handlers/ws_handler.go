package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/ws"
)

// WSUpgrade gates the upgrade on an authenticated user and hands the
// connection to the hub.
func WSUpgrade(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, _ := conn.Locals("user_id").(string)
		if uid == "" {
			_ = conn.Close()
			return
		}
		hub.HandleConnection(uid, conn)
	})
}

// RequireWebSocket rejects plain HTTP requests on the ws route.
func RequireWebSocket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
