package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
)

type clubStore interface {
	GetByOwnerUserID(ctx context.Context, ownerUserID int64) (*models.Club, error)
	Update(ctx context.Context, id int64, input repository.UpdateClubInput) (*models.Club, error)
	UpdateInviteCode(ctx context.Context, id int64, inviteCode string) (*models.Club, error)
}

type assignmentLister interface {
	ListByClubAndStatus(ctx context.Context, clubID int64, status models.AssignmentStatus) ([]models.ClubCoachSummary, error)
}

type ClubHandler struct {
	clubRepo      clubStore
	clubCoachRepo assignmentLister
}

func NewClubHandler(clubRepo clubStore, clubCoachRepo assignmentLister) *ClubHandler {
	return &ClubHandler{clubRepo: clubRepo, clubCoachRepo: clubCoachRepo}
}

type updateClubRequest struct {
	Name         string  `json:"name"`
	City         *string `json:"city"`
	ContactEmail *string `json:"contact_email"`
}

func (h *ClubHandler) GetMyClub(c *fiber.Ctx) error {
	club, ok := h.ownedClub(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"club": club})
}

func (h *ClubHandler) UpdateMyClub(c *fiber.Ctx) error {
	club, ok := h.ownedClub(c)
	if !ok {
		return nil
	}

	var req updateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Club name is required"})
	}

	updated, err := h.clubRepo.Update(c.Context(), club.ID, repository.UpdateClubInput{
		Name:         req.Name,
		City:         req.City,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update club"})
	}
	return c.JSON(fiber.Map{"club": updated})
}

// RegenerateInviteCode replaces the club's invitation code, invalidating
// the old one for future secondary-coach registrations.
func (h *ClubHandler) RegenerateInviteCode(c *fiber.Ctx) error {
	club, ok := h.ownedClub(c)
	if !ok {
		return nil
	}

	updated, err := h.clubRepo.UpdateInviteCode(c.Context(), club.ID, uuid.NewString())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to regenerate invite code"})
	}
	return c.JSON(fiber.Map{"club": updated})
}

// ListPendingAssignments is the club owner's queue of secondary coaches
// waiting on a decision.
func (h *ClubHandler) ListPendingAssignments(c *fiber.Ctx) error {
	club, ok := h.ownedClub(c)
	if !ok {
		return nil
	}

	assignments, err := h.clubCoachRepo.ListByClubAndStatus(c.Context(), club.ID, models.AssignmentStatusPending)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list assignments"})
	}
	return c.JSON(fiber.Map{"assignments": assignments})
}

// ownedClub resolves the caller's club or writes the failure response
// itself, in which case ok is false and the caller just returns.
func (h *ClubHandler) ownedClub(c *fiber.Ctx) (*models.Club, bool) {
	userID, _, ok := middleware.ActorFromLocals(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return nil, false
	}

	club, err := h.clubRepo.GetByOwnerUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch club"})
		}
		return nil, false
	}
	return club, true
}
