package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type approvalApplicationService interface {
	ApproveRequest(ctx context.Context, requestID int64, input services.RequestDecisionInput) (*models.CoachRequest, error)
	RejectRequest(ctx context.Context, requestID int64, input services.RequestDecisionInput) (*models.CoachRequest, error)
	MarkRequestUnderReview(ctx context.Context, requestID int64) (*models.CoachRequest, error)
	DecideAssignment(ctx context.Context, actorID int64, role string, assignmentID int64, next models.AssignmentStatus) (*models.ClubCoach, error)
	Resubmit(ctx context.Context, userID int64, additionalInfo string) (*models.CoachRequest, error)
}

type requestQueueReader interface {
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.CoachRequestSummary, error)
	GetByID(ctx context.Context, id int64) (*models.CoachRequest, error)
	GetDetail(ctx context.Context, requestID int64) (*models.CoachRequestDetail, error)
}

type ApprovalHandler struct {
	service     approvalApplicationService
	requestRepo requestQueueReader
}

func NewApprovalHandler(service *services.ApprovalService, requestRepo requestQueueReader) *ApprovalHandler {
	return &ApprovalHandler{service: service, requestRepo: requestRepo}
}

type requestDecisionRequest struct {
	RejectionReason *string `json:"rejection_reason"`
	AdminNotes      *string `json:"admin_notes"`
}

type resubmitRequest struct {
	AdditionalInfo string `json:"additional_info"`
}

type assignmentDecisionRequest struct {
	Status string `json:"status"`
}

// ListRequests serves the administrator's review queue. Defaults to the
// pending bucket; ?status= selects another one.
func (h *ApprovalHandler) ListRequests(c *fiber.Ctx) error {
	status := models.RequestStatus(c.Query("status", string(models.RequestStatusPending)))
	if !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	}

	summaries, err := h.requestRepo.ListByStatus(c.Context(), status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list requests"})
	}
	return c.JSON(fiber.Map{"requests": summaries})
}

func (h *ApprovalHandler) GetRequest(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.requestRepo.GetByID(c.Context(), requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch request"})
	}

	response := fiber.Map{"request": request}
	detail, err := h.requestRepo.GetDetail(c.Context(), requestID)
	if err == nil {
		response["detail"] = detail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch request detail"})
	}
	return c.JSON(response)
}

func (h *ApprovalHandler) ApproveRequest(c *fiber.Ctx) error {
	return h.decideRequest(c, h.service.ApproveRequest, "Failed to approve request")
}

func (h *ApprovalHandler) RejectRequest(c *fiber.Ctx) error {
	return h.decideRequest(c, h.service.RejectRequest, "Failed to reject request")
}

func (h *ApprovalHandler) decideRequest(
	c *fiber.Ctx,
	decide func(ctx context.Context, requestID int64, input services.RequestDecisionInput) (*models.CoachRequest, error),
	failureMessage string,
) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req requestDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	request, err := decide(c.Context(), requestID, services.RequestDecisionInput{
		RejectionReason: req.RejectionReason,
		AdminNotes:      req.AdminNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request already decided"})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rejection reason is required"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failureMessage})
		}
	}
	return c.JSON(fiber.Map{"request": request})
}

func (h *ApprovalHandler) MarkRequestUnderReview(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.service.MarkRequestUnderReview(c.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request is not pending"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark request under review"})
		}
	}
	return c.JSON(fiber.Map{"request": request})
}

// Resubmit lets a rejected main-coach applicant attach additional
// information, which moves their request back to pending.
func (h *ApprovalHandler) Resubmit(c *fiber.Ctx) error {
	userID, role, ok := middleware.ActorFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if role != models.RoleMainCoach {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req resubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.service.Resubmit(c.Context(), userID, req.AdditionalInfo)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Additional information is required"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request cannot be resubmitted"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resubmit request"})
		}
	}
	return c.JSON(fiber.Map{"request": request})
}

// DecideAssignment approves or rejects a secondary coach's assignment.
// Reachable by the owning club's main coach and by administrators.
func (h *ApprovalHandler) DecideAssignment(c *fiber.Ctx) error {
	actorID, role, ok := middleware.ActorFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	var req assignmentDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	next := models.AssignmentStatus(req.Status)
	assignment, err := h.service.DecideAssignment(c.Context(), actorID, role, assignmentID, next)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignment not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Assignment already decided"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to decide assignment"})
		}
	}
	return c.JSON(fiber.Map{"assignment": assignment})
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
