package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type teamStore interface {
	Create(ctx context.Context, clubID int64, input repository.TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	ListByClubID(ctx context.Context, clubID int64) ([]models.Team, error)
	Update(ctx context.Context, id int64, input repository.TeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int64) error
}

type TeamHandler struct {
	teamRepo   teamStore
	membership *ClubMembership
}

func NewTeamHandler(teamRepo teamStore, membership *ClubMembership) *TeamHandler {
	return &TeamHandler{teamRepo: teamRepo, membership: membership}
}

type teamRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (r teamRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "Team name is required"
	}
	if strings.TrimSpace(r.Category) == "" {
		return "Team category is required"
	}
	return ""
}

func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	team, err := h.teamRepo.Create(c.Context(), clubID, repository.TeamInput{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create team"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"team": team})
}

func (h *TeamHandler) ListTeams(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	teams, err := h.teamRepo.ListByClubID(c.Context(), clubID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list teams"})
	}
	return c.JSON(fiber.Map{"teams": teams})
}

func (h *TeamHandler) UpdateTeam(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	team, ok := h.clubTeam(c, clubID)
	if !ok {
		return nil
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	updated, err := h.teamRepo.Update(c.Context(), team.ID, repository.TeamInput{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update team"})
	}
	return c.JSON(fiber.Map{"team": updated})
}

func (h *TeamHandler) DeleteTeam(c *fiber.Ctx) error {
	clubID, ok := h.actingClubID(c)
	if !ok {
		return nil
	}

	team, ok := h.clubTeam(c, clubID)
	if !ok {
		return nil
	}

	if err := h.teamRepo.Delete(c.Context(), team.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete team"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TeamHandler) actingClubID(c *fiber.Ctx) (int64, bool) {
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

func (h *TeamHandler) clubTeam(c *fiber.Ctx, clubID int64) (*models.Team, bool) {
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team id"})
		return nil, false
	}

	team, err := h.teamRepo.GetByID(c.Context(), teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch team"})
		}
		return nil, false
	}
	if team.ClubID != clubID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return nil, false
	}
	return team, true
}
