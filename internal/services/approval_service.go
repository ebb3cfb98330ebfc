package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInput           = errors.New("invalid input")
)

type clubReader interface {
	GetByID(ctx context.Context, id int64) (*models.Club, error)
}

type userEmailReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// DecisionNotifier delivers a best-effort notification to the applicant
// when a decision lands. Failures are logged by the implementation and
// never fail the decision itself.
type DecisionNotifier interface {
	SendRequestDecision(ctx context.Context, email, fullName string, status models.RequestStatus, rejectionReason *string)
}

// ApprovalService performs the authorized status transitions of the
// onboarding state machine. The main-coach approval mirrors the decision
// onto the profile's generic status inside the same transaction, so the
// two independently read signals can never be observed half-applied.
type ApprovalService struct {
	db            *pgxpool.Pool
	requestRepo   *repository.CoachRequestRepository
	profileRepo   *repository.ProfileRepository
	clubCoachRepo *repository.ClubCoachRepository
	clubRepo      clubReader
	userRepo      userEmailReader
	notifier      DecisionNotifier
}

func NewApprovalService(
	db *pgxpool.Pool,
	requestRepo *repository.CoachRequestRepository,
	profileRepo *repository.ProfileRepository,
	clubCoachRepo *repository.ClubCoachRepository,
	clubRepo clubReader,
	userRepo userEmailReader,
	notifier DecisionNotifier,
) *ApprovalService {
	return &ApprovalService{
		db:            db,
		requestRepo:   requestRepo,
		profileRepo:   profileRepo,
		clubCoachRepo: clubCoachRepo,
		clubRepo:      clubRepo,
		userRepo:      userRepo,
		notifier:      notifier,
	}
}

type RequestDecisionInput struct {
	RejectionReason *string
	AdminNotes      *string
}

// ApproveRequest transitions a main-coach request to approved and mirrors
// the profile status in the same transaction. Valid from pending or
// under_review; anything else is an invalid transition.
func (s *ApprovalService) ApproveRequest(ctx context.Context, requestID int64, input RequestDecisionInput) (*models.CoachRequest, error) {
	request, err := s.decideRequest(ctx, requestID, models.RequestStatusApproved, input)
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, request, nil)
	return request, nil
}

// RejectRequest transitions a main-coach request to rejected and records
// the rejection reason. The profile status is left untouched; the gate
// reads the request status for the rejected branch.
func (s *ApprovalService) RejectRequest(ctx context.Context, requestID int64, input RequestDecisionInput) (*models.CoachRequest, error) {
	if input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "" {
		return nil, ErrInvalidInput
	}
	request, err := s.decideRequest(ctx, requestID, models.RequestStatusRejected, input)
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, request, input.RejectionReason)
	return request, nil
}

// MarkRequestUnderReview parks a pending request while an administrator
// looks at it. No notification is sent.
func (s *ApprovalService) MarkRequestUnderReview(ctx context.Context, requestID int64) (*models.CoachRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrInvalidStateTransition
	}
	updated, err := s.requestRepo.UpdateStatusIfCurrent(ctx, requestID, request.Status, models.RequestStatusUnderReview)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func (s *ApprovalService) decideRequest(ctx context.Context, requestID int64, next models.RequestStatus, input RequestDecisionInput) (*models.CoachRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending && request.Status != models.RequestStatusUnderReview {
		return nil, ErrInvalidStateTransition
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRequestRepo := repository.NewCoachRequestRepository(tx)
	txProfileRepo := repository.NewProfileRepository(tx)

	updated, err := txRequestRepo.UpdateStatusIfCurrent(ctx, requestID, request.Status, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	if next == models.RequestStatusApproved {
		if _, err := txProfileRepo.UpdateStatus(ctx, request.UserID, models.ProfileStatusApproved); err != nil {
			return nil, err
		}
	}

	if input.RejectionReason != nil || input.AdminNotes != nil {
		if err := txRequestRepo.UpsertReviewNotes(ctx, requestID, input.RejectionReason, input.AdminNotes); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// DecideAssignment approves or rejects a secondary coach's club assignment.
// Only the owning club's main coach or an administrator may decide; the
// decision is a single status update with no profile mirror.
func (s *ApprovalService) DecideAssignment(ctx context.Context, actorID int64, role string, assignmentID int64, next models.AssignmentStatus) (*models.ClubCoach, error) {
	if next != models.AssignmentStatusApproved && next != models.AssignmentStatusRejected {
		return nil, ErrInvalidStatus
	}

	assignment, err := s.clubCoachRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if role != models.RoleAdmin {
		if role != models.RoleMainCoach {
			return nil, ErrForbidden
		}
		club, err := s.clubRepo.GetByID(ctx, assignment.ClubID)
		if err != nil {
			return nil, err
		}
		if club.OwnerUserID != actorID {
			return nil, ErrForbidden
		}
	}

	if assignment.Status != models.AssignmentStatusPending {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.clubCoachRepo.UpdateStatusIfCurrent(ctx, assignmentID, assignment.Status, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

// Resubmit records the applicant's additional information and, when the
// request was rejected, moves it back to pending. This is the only
// caller-initiated backward transition. Resubmitting while already pending
// only refreshes the stored text; the previously recorded rejection reason
// is never cleared.
func (s *ApprovalService) Resubmit(ctx context.Context, userID int64, additionalInfo string) (*models.CoachRequest, error) {
	additionalInfo = strings.TrimSpace(additionalInfo)
	if additionalInfo == "" {
		return nil, ErrInvalidInput
	}

	request, err := s.requestRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case models.RequestStatusPending:
		if err := s.requestRepo.UpsertAdditionalInfo(ctx, request.ID, additionalInfo); err != nil {
			return nil, err
		}
		return request, nil
	case models.RequestStatusRejected:
		tx, err := s.db.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = tx.Rollback(ctx)
		}()

		txRequestRepo := repository.NewCoachRequestRepository(tx)
		if err := txRequestRepo.UpsertAdditionalInfo(ctx, request.ID, additionalInfo); err != nil {
			return nil, err
		}
		updated, err := txRequestRepo.UpdateStatusIfCurrent(ctx, request.ID, models.RequestStatusRejected, models.RequestStatusPending)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrInvalidStateTransition
			}
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return updated, nil
	default:
		return nil, ErrInvalidStateTransition
	}
}

func (s *ApprovalService) notifyDecision(ctx context.Context, request *models.CoachRequest, rejectionReason *string) {
	if s.notifier == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, request.UserID)
	if err != nil {
		return
	}
	fullName := user.Email
	if profile, err := s.profileRepo.GetByUserID(ctx, request.UserID); err == nil {
		fullName = profile.FullName
	}
	s.notifier.SendRequestDecision(ctx, user.Email, fullName, request.Status, rejectionReason)
}
