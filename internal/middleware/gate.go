package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type gateResolver interface {
	Resolve(ctx context.Context, userID int64, role string) (*services.GateState, error)
}

// GateRequired is the single enforcement point for approval status and
// per-route role allow-lists. It must run after AuthRequired. Anything but
// an authorized decision stops the request; a resolution failure stops it
// too, so an outage can never unlock protected content.
func GateRequired(gate gateResolver, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := ActorFromLocals(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		state, err := gate.Resolve(c.Context(), userID, role)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve approval status"})
		}

		decision := services.Decide(state, allowedRoles)
		switch decision {
		case services.GateAuthorized:
			return c.Next()
		case services.GateProfileMissing:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":         "Profile not provisioned yet",
				"gate_decision": decision,
			})
		case services.GateRejectedResubmit:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "Request rejected; additional information may be submitted",
				"gate_decision": decision,
			})
		case services.GatePendingApproval:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "Approval pending",
				"gate_decision": decision,
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "Access denied",
				"gate_decision": services.GateAccessDenied,
			})
		}
	}
}
