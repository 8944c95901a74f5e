// handlers/events.go - Live achievement event stream
package handlers

import (
	"log"

	"paceline/middleware"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates the event stream route to websocket handshakes
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// EventStream pushes the caller's achievement events over a websocket. The
// sink keeps working if no client is connected; this is a live view, not a
// delivery guarantee.
var EventStream = websocket.New(func(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == 0 {
		_ = conn.WriteJSON(fiber.Map{"error": "Unauthorized"})
		_ = conn.Close()
		return
	}

	events, cancel := services.GetEventService().Subscribe(userID)
	defer cancel()

	// Drain reads so pings and client closes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				log.Printf("events: websocket write for user %d failed: %v", userID, err)
				return
			}
		case <-done:
			return
		}
	}
})

func websocketUserID(conn *websocket.Conn) uint {
	switch v := conn.Locals("userId").(type) {
	case float64:
		return uint(v)
	case uint:
		return v
	default:
		return 0
	}
}

// GetRecentEvents returns the caller's recent persisted events
func GetRecentEvents(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	events, err := services.GetEventService().RecentEvents(userID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch events"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
		"total":   len(events),
	})
}
