package handlers

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
	"github.com/Tatorick/net-play-connect-sub000/pkg/utils"
)

type gateStateResolver interface {
	Resolve(ctx context.Context, userID int64, role string) (*services.GateState, error)
}

type requestDetailReader interface {
	GetLatestByUserID(ctx context.Context, userID int64) (*models.CoachRequest, error)
	GetDetail(ctx context.Context, requestID int64) (*models.CoachRequestDetail, error)
}

type AuthHandler struct {
	db          *pgxpool.Pool
	userRepo    *repository.UserRepository
	gate        gateStateResolver
	requestRepo requestDetailReader
	jwtSecret   string
}

func NewAuthHandler(
	db *pgxpool.Pool,
	userRepo *repository.UserRepository,
	gate gateStateResolver,
	requestRepo requestDetailReader,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		db:          db,
		userRepo:    userRepo,
		gate:        gate,
		requestRepo: requestRepo,
		jwtSecret:   jwtSecret,
	}
}

type registerClubPayload struct {
	Name         string  `json:"name"`
	City         *string `json:"city"`
	ContactEmail *string `json:"contact_email"`
}

type registerRequest struct {
	Email      string               `json:"email"`
	Password   string               `json:"password"`
	Role       string               `json:"role"`
	FullName   string               `json:"full_name"`
	Club       *registerClubPayload `json:"club"`
	InviteCode string               `json:"invite_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register provisions a new coach account. A main coach supplies the club
// they are founding; the club and their approval request are created
// pending in the same transaction as the account. A secondary coach
// supplies an invitation code and gets a pending club assignment instead.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Full name is required"})
	}
	if req.Role != models.RoleMainCoach && req.Role != models.RoleSecondaryCoach {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}
	if req.Role == models.RoleMainCoach {
		if req.Club == nil || strings.TrimSpace(req.Club.Name) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Club data is required"})
		}
	}

	var joinClub *models.Club
	if req.Role == models.RoleSecondaryCoach {
		code := strings.TrimSpace(req.InviteCode)
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invite code is required"})
		}
		clubRepo := repository.NewClubRepository(h.db)
		joinClub, err = clubRepo.GetByInviteCode(c.Context(), code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invite code"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate invite code"})
		}
	}

	tx, err := h.db.Begin(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to start registration transaction"})
	}
	defer func() {
		_ = tx.Rollback(c.Context())
	}()

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
	}

	txUserRepo := repository.NewUserRepository(tx)
	txProfileRepo := repository.NewProfileRepository(tx)
	txClubRepo := repository.NewClubRepository(tx)

	if err := txUserRepo.CreateUser(c.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create user"})
	}

	if _, err := txProfileRepo.Create(c.Context(), user.ID, req.FullName, models.ProfileStatusPending); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create profile"})
	}

	if req.Role == models.RoleMainCoach {
		club, err := txClubRepo.Create(c.Context(), repository.CreateClubInput{
			Name:         strings.TrimSpace(req.Club.Name),
			City:         req.Club.City,
			ContactEmail: req.Club.ContactEmail,
			InviteCode:   uuid.NewString(),
			OwnerUserID:  user.ID,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to create club"})
		}
		txRequestRepo := repository.NewCoachRequestRepository(tx)
		if _, err := txRequestRepo.Create(c.Context(), user.ID, club.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to create coach request"})
		}
	} else {
		txClubCoachRepo := repository.NewClubCoachRepository(tx)
		if _, err := txClubCoachRepo.Create(c.Context(), joinClub.ID, user.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to create club assignment"})
		}
	}

	if err := tx.Commit(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to finalize registration"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to lookup user"})
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Me returns the caller's account together with the resolved gate state and
// decision, which is everything the client shell needs to choose between
// the pending, rejected and protected screens. When the caller's request
// was rejected, any stored rejection reason rides along.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, role, ok := middleware.ActorFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	state, err := h.gate.Resolve(c.Context(), userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve approval status"})
	}
	decision := services.Decide(state, nil)

	response := fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"gate_state":    state,
		"gate_decision": decision,
	}

	if decision == services.GateRejectedResubmit {
		if request, err := h.requestRepo.GetLatestByUserID(c.Context(), userID); err == nil {
			if detail, err := h.requestRepo.GetDetail(c.Context(), request.ID); err == nil {
				response["rejection_reason"] = detail.RejectionReason
			}
		}
	}

	return c.JSON(response)
}
