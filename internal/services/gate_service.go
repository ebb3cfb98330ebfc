package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

// GateDecision is the single outcome the access gate produces for a caller
// on a protected route.
type GateDecision string

const (
	GateAuthorized       GateDecision = "authorized"
	GateProfileMissing   GateDecision = "profile_missing"
	GatePendingApproval  GateDecision = "pending_approval"
	GateRejectedResubmit GateDecision = "rejected_resubmit"
	GateAccessDenied     GateDecision = "access_denied"
)

// GateState is the consolidated "who is this caller and what is their
// approval state" view. RequestStatus is populated for main coaches,
// AssignmentStatus for secondary coaches; both stay nil for other roles.
type GateState struct {
	Role             string                   `json:"role"`
	Profile          *models.Profile          `json:"profile"`
	RequestStatus    *models.RequestStatus    `json:"request_status,omitempty"`
	AssignmentStatus *models.AssignmentStatus `json:"assignment_status,omitempty"`
}

type gateProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type gateRequestReader interface {
	GetLatestByUserID(ctx context.Context, userID int64) (*models.CoachRequest, error)
}

type gateAssignmentReader interface {
	GetLatestByUserID(ctx context.Context, userID int64) (*models.ClubCoach, error)
}

type GateService struct {
	profileRepo   gateProfileReader
	requestRepo   gateRequestReader
	clubCoachRepo gateAssignmentReader
}

func NewGateService(
	profileRepo gateProfileReader,
	requestRepo gateRequestReader,
	clubCoachRepo gateAssignmentReader,
) *GateService {
	return &GateService{
		profileRepo:   profileRepo,
		requestRepo:   requestRepo,
		clubCoachRepo: clubCoachRepo,
	}
}

// Resolve loads the caller's profile and, depending on role, the status of
// their newest coach request or club assignment. A missing profile row is
// not an error: the caller may simply not be provisioned yet, so the state
// comes back with a nil Profile and the gate reports GateProfileMissing.
// A missing request/assignment row likewise leaves the status nil, which
// the gate treats as not-approved.
func (s *GateService) Resolve(ctx context.Context, userID int64, role string) (*GateState, error) {
	state := &GateState{Role: role}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return state, nil
		}
		return nil, err
	}
	state.Profile = profile

	switch role {
	case models.RoleMainCoach:
		request, err := s.requestRepo.GetLatestByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return state, nil
			}
			return nil, err
		}
		state.RequestStatus = &request.Status
	case models.RoleSecondaryCoach:
		assignment, err := s.clubCoachRepo.GetLatestByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return state, nil
			}
			return nil, err
		}
		state.AssignmentStatus = &assignment.Status
	}

	return state, nil
}

// Decide maps a resolved state and a route's allowed-roles list to exactly
// one outcome, evaluated in fixed priority order. Only the literal approved
// status ever unlocks protected content; absent or unrecognized values land
// on a waiting or denied state, never on authorized.
func Decide(state *GateState, allowedRoles []string) GateDecision {
	if state == nil || state.Profile == nil {
		return GateProfileMissing
	}

	switch state.Role {
	case models.RoleMainCoach:
		if state.RequestStatus == nil || *state.RequestStatus != models.RequestStatusApproved {
			if state.RequestStatus != nil && *state.RequestStatus == models.RequestStatusRejected {
				return GateRejectedResubmit
			}
			return GatePendingApproval
		}
	case models.RoleSecondaryCoach:
		if state.AssignmentStatus != nil && *state.AssignmentStatus == models.AssignmentStatusRejected {
			return GateAccessDenied
		}
		if state.AssignmentStatus == nil || *state.AssignmentStatus != models.AssignmentStatusApproved {
			return GatePendingApproval
		}
	}

	if len(allowedRoles) > 0 {
		allowed := false
		for _, role := range allowedRoles {
			if state.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return GateAccessDenied
		}
	}

	return GateAuthorized
}
