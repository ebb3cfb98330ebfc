package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Tatorick/net-play-connect-sub000/pkg/utils"
)

// AuthRequired validates the bearer token and stores the caller's numeric
// user id and role in the request locals.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// ActorFromLocals reads back what AuthRequired stored.
func ActorFromLocals(c *fiber.Ctx) (int64, string, bool) {
	userID, ok := c.Locals("user_id").(int64)
	if !ok || userID <= 0 {
		return 0, "", false
	}
	role, ok := c.Locals("role").(string)
	if !ok || role == "" {
		return 0, "", false
	}
	return userID, role, true
}
