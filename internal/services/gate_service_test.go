package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type stubProfileReader struct {
	profile *models.Profile
	err     error
	calls   int
}

func (r *stubProfileReader) GetByUserID(_ context.Context, _ int64) (*models.Profile, error) {
	r.calls++
	return r.profile, r.err
}

type stubRequestReader struct {
	request *models.CoachRequest
	err     error
	calls   int
}

func (r *stubRequestReader) GetLatestByUserID(_ context.Context, _ int64) (*models.CoachRequest, error) {
	r.calls++
	return r.request, r.err
}

type stubAssignmentReader struct {
	assignment *models.ClubCoach
	err        error
	calls      int
}

func (r *stubAssignmentReader) GetLatestByUserID(_ context.Context, _ int64) (*models.ClubCoach, error) {
	r.calls++
	return r.assignment, r.err
}

func approvedProfile() *models.Profile {
	return &models.Profile{
		ID:        1,
		UserID:    42,
		FullName:  "Carla Mena",
		Status:    models.ProfileStatusApproved,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func requestStatusPtr(s models.RequestStatus) *models.RequestStatus {
	return &s
}

func assignmentStatusPtr(s models.AssignmentStatus) *models.AssignmentStatus {
	return &s
}

func TestResolveAttachesRequestStatusForMainCoach(t *testing.T) {
	profiles := &stubProfileReader{profile: approvedProfile()}
	requests := &stubRequestReader{request: &models.CoachRequest{ID: 3, UserID: 42, Status: models.RequestStatusPending}}
	assignments := &stubAssignmentReader{}
	gate := NewGateService(profiles, requests, assignments)

	state, err := gate.Resolve(context.Background(), 42, models.RoleMainCoach)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state.RequestStatus == nil || *state.RequestStatus != models.RequestStatusPending {
		t.Fatalf("expected pending request status, got %+v", state.RequestStatus)
	}
	if state.AssignmentStatus != nil {
		t.Fatalf("expected no assignment status for main coach")
	}
	if assignments.calls != 0 {
		t.Fatalf("expected no assignment fetch for main coach")
	}
}

func TestResolveAttachesAssignmentStatusForSecondaryCoach(t *testing.T) {
	profiles := &stubProfileReader{profile: approvedProfile()}
	requests := &stubRequestReader{}
	assignments := &stubAssignmentReader{assignment: &models.ClubCoach{ID: 8, UserID: 42, Status: models.AssignmentStatusApproved}}
	gate := NewGateService(profiles, requests, assignments)

	state, err := gate.Resolve(context.Background(), 42, models.RoleSecondaryCoach)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state.AssignmentStatus == nil || *state.AssignmentStatus != models.AssignmentStatusApproved {
		t.Fatalf("expected approved assignment status, got %+v", state.AssignmentStatus)
	}
	if requests.calls != 0 {
		t.Fatalf("expected no request fetch for secondary coach")
	}
}

func TestResolveSkipsSecondaryFetchForAdmin(t *testing.T) {
	profiles := &stubProfileReader{profile: approvedProfile()}
	requests := &stubRequestReader{}
	assignments := &stubAssignmentReader{}
	gate := NewGateService(profiles, requests, assignments)

	state, err := gate.Resolve(context.Background(), 42, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state.RequestStatus != nil || state.AssignmentStatus != nil {
		t.Fatalf("expected no secondary statuses for admin, got %+v", state)
	}
	if requests.calls != 0 || assignments.calls != 0 {
		t.Fatalf("expected no secondary fetches for admin")
	}
}

func TestResolveTreatsMissingProfileAsNotProvisioned(t *testing.T) {
	profiles := &stubProfileReader{err: pgx.ErrNoRows}
	gate := NewGateService(profiles, &stubRequestReader{}, &stubAssignmentReader{})

	state, err := gate.Resolve(context.Background(), 42, models.RoleMainCoach)
	if err != nil {
		t.Fatalf("expected no error for missing profile, got %v", err)
	}
	if state.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", state.Profile)
	}
	if Decide(state, nil) != GateProfileMissing {
		t.Fatalf("expected profile missing decision")
	}
}

func TestResolveTreatsMissingRequestAsAbsentStatus(t *testing.T) {
	profiles := &stubProfileReader{profile: approvedProfile()}
	requests := &stubRequestReader{err: pgx.ErrNoRows}
	gate := NewGateService(profiles, requests, &stubAssignmentReader{})

	state, err := gate.Resolve(context.Background(), 42, models.RoleMainCoach)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state.RequestStatus != nil {
		t.Fatalf("expected absent request status, got %+v", state.RequestStatus)
	}
	if Decide(state, nil) != GatePendingApproval {
		t.Fatalf("expected absent request status to stay fail-closed")
	}
}

func TestResolvePropagatesFetchFailures(t *testing.T) {
	storeErr := errors.New("connection reset")
	profiles := &stubProfileReader{err: storeErr}
	gate := NewGateService(profiles, &stubRequestReader{}, &stubAssignmentReader{})

	if _, err := gate.Resolve(context.Background(), 42, models.RoleMainCoach); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDecideNeverAuthorizesMainCoachWithoutLiteralApproved(t *testing.T) {
	statuses := []*models.RequestStatus{
		nil,
		requestStatusPtr(models.RequestStatusPending),
		requestStatusPtr(models.RequestStatusUnderReview),
		requestStatusPtr(models.RequestStatus("garbage")),
		requestStatusPtr(models.RequestStatus("")),
		requestStatusPtr(models.RequestStatus("APPROVED")),
	}

	for _, status := range statuses {
		state := &GateState{Role: models.RoleMainCoach, Profile: approvedProfile(), RequestStatus: status}
		if got := Decide(state, nil); got != GatePendingApproval {
			t.Fatalf("status %v: expected pending approval, got %q", status, got)
		}
	}

	rejected := &GateState{
		Role:          models.RoleMainCoach,
		Profile:       approvedProfile(),
		RequestStatus: requestStatusPtr(models.RequestStatusRejected),
	}
	if got := Decide(rejected, nil); got != GateRejectedResubmit {
		t.Fatalf("expected rejected resubmit, got %q", got)
	}
}

func TestDecideAuthorizesApprovedMainCoach(t *testing.T) {
	state := &GateState{
		Role:          models.RoleMainCoach,
		Profile:       approvedProfile(),
		RequestStatus: requestStatusPtr(models.RequestStatusApproved),
	}
	if got := Decide(state, nil); got != GateAuthorized {
		t.Fatalf("expected authorized, got %q", got)
	}
}

func TestDecideSecondaryCoachRejectionIsTerminal(t *testing.T) {
	state := &GateState{
		Role:             models.RoleSecondaryCoach,
		Profile:          approvedProfile(),
		AssignmentStatus: assignmentStatusPtr(models.AssignmentStatusRejected),
	}
	if got := Decide(state, nil); got != GateAccessDenied {
		t.Fatalf("expected access denied, got %q", got)
	}
}

func TestDecideSecondaryCoachDefaultsToPending(t *testing.T) {
	statuses := []*models.AssignmentStatus{
		nil,
		assignmentStatusPtr(models.AssignmentStatusPending),
		assignmentStatusPtr(models.AssignmentStatus("weird")),
	}
	for _, status := range statuses {
		state := &GateState{Role: models.RoleSecondaryCoach, Profile: approvedProfile(), AssignmentStatus: status}
		if got := Decide(state, nil); got != GatePendingApproval {
			t.Fatalf("status %v: expected pending approval, got %q", status, got)
		}
	}
}

func TestDecideRoleAllowListOverridesApproval(t *testing.T) {
	state := &GateState{
		Role:          models.RoleMainCoach,
		Profile:       approvedProfile(),
		RequestStatus: requestStatusPtr(models.RequestStatusApproved),
	}
	if got := Decide(state, []string{models.RoleAdmin}); got != GateAccessDenied {
		t.Fatalf("expected access denied for role outside allow-list, got %q", got)
	}
	if got := Decide(state, []string{models.RoleAdmin, models.RoleMainCoach}); got != GateAuthorized {
		t.Fatalf("expected authorized for role in allow-list, got %q", got)
	}
}

func TestDecideEmptyAllowListAdmitsAnyApprovedRole(t *testing.T) {
	state := &GateState{Role: models.RoleAdmin, Profile: approvedProfile()}
	if got := Decide(state, nil); got != GateAuthorized {
		t.Fatalf("expected authorized admin, got %q", got)
	}
}
