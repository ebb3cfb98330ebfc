package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type topeApplicationService interface {
	Publish(ctx context.Context, clubID int64, input services.PublishTopeInput) (*models.Tope, error)
	Browse(ctx context.Context, clubID int64, filter repository.TopeListFilter) ([]models.Tope, error)
	GetDetail(ctx context.Context, clubID, topeID int64) (*models.TopeDetail, error)
	ExpressInterest(ctx context.Context, clubID, topeID, teamID int64) (*models.TopeInterest, error)
	DecideInterest(ctx context.Context, clubID, interestID int64, accept bool) (*models.TopeInterest, error)
	Confirm(ctx context.Context, clubID, topeID int64) (*models.Tope, error)
	Cancel(ctx context.Context, clubID, topeID int64) (*models.Tope, error)
}

type TopeHandler struct {
	service    topeApplicationService
	membership *ClubMembership
}

func NewTopeHandler(service *services.TopeService, membership *ClubMembership) *TopeHandler {
	return &TopeHandler{service: service, membership: membership}
}

type publishTopeRequest struct {
	TeamID      int64   `json:"team_id"`
	ScheduledAt string  `json:"scheduled_at"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Notes       *string `json:"notes"`
}

type expressInterestRequest struct {
	TeamID int64 `json:"team_id"`
}

type decideInterestRequest struct {
	Accept bool `json:"accept"`
}

func (h *TopeHandler) PublishTope(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	var req publishTopeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid scheduled_at, expected RFC3339"})
	}

	tope, err := h.service.Publish(c.Context(), clubID, services.PublishTopeInput{
		TeamID:      req.TeamID,
		ScheduledAt: scheduledAt,
		Location:    req.Location,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.topeError(c, err, "Failed to publish tope")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tope": tope})
}

func (h *TopeHandler) BrowseTopes(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	filter := repository.TopeListFilter{Category: c.Query("category")}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from, expected RFC3339"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to, expected RFC3339"})
		}
		filter.To = &t
	}

	topes, err := h.service.Browse(c.Context(), clubID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to browse topes"})
	}
	return c.JSON(fiber.Map{"topes": topes})
}

func (h *TopeHandler) GetTope(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}
	topeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tope id"})
	}

	detail, err := h.service.GetDetail(c.Context(), clubID, topeID)
	if err != nil {
		return h.topeError(c, err, "Failed to fetch tope")
	}
	return c.JSON(fiber.Map{"tope": detail})
}

func (h *TopeHandler) ExpressInterest(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}
	topeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tope id"})
	}

	var req expressInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	interest, err := h.service.ExpressInterest(c.Context(), clubID, topeID, req.TeamID)
	if err != nil {
		return h.topeError(c, err, "Failed to express interest")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"interest": interest})
}

func (h *TopeHandler) DecideInterest(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}
	interestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid interest id"})
	}

	var req decideInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	interest, err := h.service.DecideInterest(c.Context(), clubID, interestID, req.Accept)
	if err != nil {
		return h.topeError(c, err, "Failed to decide interest")
	}
	return c.JSON(fiber.Map{"interest": interest})
}

func (h *TopeHandler) ConfirmTope(c *fiber.Ctx) error {
	return h.closeTope(c, h.service.Confirm, "Failed to confirm tope")
}

func (h *TopeHandler) CancelTope(c *fiber.Ctx) error {
	return h.closeTope(c, h.service.Cancel, "Failed to cancel tope")
}

func (h *TopeHandler) closeTope(
	c *fiber.Ctx,
	action func(ctx context.Context, clubID, topeID int64) (*models.Tope, error),
	failureMessage string,
) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}
	topeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tope id"})
	}

	tope, err := action(c.Context(), clubID, topeID)
	if err != nil {
		return h.topeError(c, err, failureMessage)
	}
	return c.JSON(fiber.Map{"tope": tope})
}

func (h *TopeHandler) topeError(c *fiber.Ctx, err error, failureMessage string) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Interest already expressed"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	case errors.Is(err, services.ErrTopeClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tope is no longer open"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invalid state transition"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failureMessage})
	}
}

func (h *TopeHandler) actingClubID(c *fiber.Ctx) (int64, bool) {
	userID, role, ok := middleware.ActorFromLocals(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return 0, false
	}

	clubID, err := h.membership.ClubIDForActor(c.Context(), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), errors.Is(err, services.ErrForbidden):
			_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No club membership"})
		default:
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve club"})
		}
		return 0, false
	}
	return clubID, true
}
