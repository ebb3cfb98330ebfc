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

type playerStore interface {
	Create(ctx context.Context, teamID int64, input repository.PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	ListByTeamID(ctx context.Context, teamID int64) ([]models.Player, error)
	Update(ctx context.Context, id int64, input repository.PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int64) error
}

type teamByIDReader interface {
	GetByID(ctx context.Context, id int64) (*models.Team, error)
}

type PlayerHandler struct {
	playerRepo playerStore
	teamRepo   teamByIDReader
	membership *ClubMembership
}

func NewPlayerHandler(playerRepo playerStore, teamRepo teamByIDReader, membership *ClubMembership) *PlayerHandler {
	return &PlayerHandler{playerRepo: playerRepo, teamRepo: teamRepo, membership: membership}
}

type playerRequest struct {
	FullName     string  `json:"full_name"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
}

func (h *PlayerHandler) CreatePlayer(c *fiber.Ctx) error {
	teamID, ok := h.ownedTeamID(c, "team_id")
	if !ok {
		return nil
	}

	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Player name is required"})
	}
	if req.JerseyNumber != nil && (*req.JerseyNumber < 0 || *req.JerseyNumber > 99) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Jersey number must be between 0 and 99"})
	}

	player, err := h.playerRepo.Create(c.Context(), teamID, repository.PlayerInput{
		FullName:     req.FullName,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create player"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) ListPlayers(c *fiber.Ctx) error {
	teamID, ok := h.ownedTeamID(c, "team_id")
	if !ok {
		return nil
	}

	players, err := h.playerRepo.ListByTeamID(c.Context(), teamID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list players"})
	}
	return c.JSON(fiber.Map{"players": players})
}

func (h *PlayerHandler) UpdatePlayer(c *fiber.Ctx) error {
	player, ok := h.ownedPlayer(c)
	if !ok {
		return nil
	}

	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Player name is required"})
	}
	if req.JerseyNumber != nil && (*req.JerseyNumber < 0 || *req.JerseyNumber > 99) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Jersey number must be between 0 and 99"})
	}

	updated, err := h.playerRepo.Update(c.Context(), player.ID, repository.PlayerInput{
		FullName:     req.FullName,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update player"})
	}
	return c.JSON(fiber.Map{"player": updated})
}

func (h *PlayerHandler) DeletePlayer(c *fiber.Ctx) error {
	player, ok := h.ownedPlayer(c)
	if !ok {
		return nil
	}

	if err := h.playerRepo.Delete(c.Context(), player.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete player"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownedTeamID checks that the team in the route belongs to the caller's
// club before any roster read or write.
func (h *PlayerHandler) ownedTeamID(c *fiber.Ctx, param string) (int64, bool) {
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

	teamID, err := parseIDParam(c, param)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team id"})
		return 0, false
	}

	team, err := h.teamRepo.GetByID(c.Context(), teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch team"})
		}
		return 0, false
	}
	if team.ClubID != clubID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return 0, false
	}
	return team.ID, true
}

func (h *PlayerHandler) ownedPlayer(c *fiber.Ctx) (*models.Player, bool) {
	playerID, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
		return nil, false
	}

	player, err := h.playerRepo.GetByID(c.Context(), playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch player"})
		}
		return nil, false
	}

	userID, role, ok := middleware.ActorFromLocals(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return nil, false
	}
	clubID, err := h.membership.ClubIDForActor(c.Context(), userID, role)
	if err != nil {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No club membership"})
		return nil, false
	}

	team, err := h.teamRepo.GetByID(c.Context(), player.TeamID)
	if err != nil || team.ClubID != clubID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return nil, false
	}
	return player, true
}
