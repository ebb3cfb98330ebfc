package handlers

import (
	"context"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Tatorick/net-play-connect-sub000/internal/services"
	statusws "github.com/Tatorick/net-play-connect-sub000/internal/websocket"
	"github.com/Tatorick/net-play-connect-sub000/pkg/utils"
)

// StatusHandler serves the websocket a waiting applicant keeps open while
// their approval is pending. Each connection runs its own bounded status
// watch; closing the socket tears the watch down.
type StatusHandler struct {
	hub       *statusws.Hub
	watcher   *services.StatusWatcher
	jwtSecret string
}

func NewStatusHandler(hub *statusws.Hub, watcher *services.StatusWatcher, jwtSecret string) *StatusHandler {
	return &StatusHandler{hub: hub, watcher: watcher, jwtSecret: jwtSecret}
}

// WebSocketAuth authorizes the upgrade. Browsers cannot set headers on
// websocket requests, so the token rides in the query string.
func (h *StatusHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}
	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("ws_user_id", userID)
	c.Locals("ws_role", claims.Role)
	return c.Next()
}

func (h *StatusHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("ws_user_id").(int64)
	if !ok {
		_ = conn.Close()
		return
	}
	role, ok := conn.Locals("ws_role").(string)
	if !ok {
		_ = conn.Close()
		return
	}

	client := statusws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.watcher.Watch(ctx, userID, role)
	go client.WritePump()
	client.ReadPump()
}
