package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
)

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		switch target := dest[i].(type) {
		case *int64:
			*target = r.values[i].(int64)
		case *string:
			*target = r.values[i].(string)
		case **string:
			*target = r.values[i].(*string)
		case *models.RequestStatus:
			*target = r.values[i].(models.RequestStatus)
		case *models.AssignmentStatus:
			*target = r.values[i].(models.AssignmentStatus)
		case *models.ProfileStatus:
			*target = r.values[i].(models.ProfileStatus)
		case *time.Time:
			*target = r.values[i].(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type stubDBTX struct {
	queryRowFn  func(ctx context.Context, query string, args ...any) stubRow
	execQueries []string
}

func (db *stubDBTX) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	db.execQueries = append(db.execQueries, query)
	return pgconn.CommandTag{}, nil
}

func (db *stubDBTX) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (db *stubDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return db.queryRowFn(ctx, query, args...)
}

type stubClubReader struct {
	club *models.Club
	err  error
}

func (r *stubClubReader) GetByID(_ context.Context, _ int64) (*models.Club, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.club, nil
}

var unitTestTime = time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

func requestRowValues(id, userID int64, status models.RequestStatus) []any {
	return []any{id, userID, int64(5), status, unitTestTime, unitTestTime}
}

func assignmentRowValues(id, clubID, userID int64, status models.AssignmentStatus) []any {
	return []any{id, clubID, userID, status, unitTestTime, unitTestTime}
}

func TestRejectRequestRequiresReason(t *testing.T) {
	service := NewApprovalService(nil, nil, nil, nil, nil, nil, nil)

	empty := "   "
	for _, input := range []RequestDecisionInput{{}, {RejectionReason: &empty}} {
		if _, err := service.RejectRequest(context.Background(), 1, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
}

func TestMarkRequestUnderReviewTransitionsFromPending(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, _ ...any) stubRow {
			if strings.Contains(query, "UPDATE coach_requests") {
				return stubRow{values: requestRowValues(3, 42, models.RequestStatusUnderReview)}
			}
			return stubRow{values: requestRowValues(3, 42, models.RequestStatusPending)}
		},
	}
	service := NewApprovalService(nil, repository.NewCoachRequestRepository(db), nil, nil, nil, nil, nil)

	updated, err := service.MarkRequestUnderReview(context.Background(), 3)
	if err != nil {
		t.Fatalf("MarkRequestUnderReview: %v", err)
	}
	if updated.Status != models.RequestStatusUnderReview {
		t.Fatalf("expected under_review, got %q", updated.Status)
	}
}

func TestMarkRequestUnderReviewRejectsDecidedRequests(t *testing.T) {
	for _, status := range []models.RequestStatus{models.RequestStatusApproved, models.RequestStatusRejected, models.RequestStatusUnderReview} {
		db := &stubDBTX{
			queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
				return stubRow{values: requestRowValues(3, 42, status)}
			},
		}
		service := NewApprovalService(nil, repository.NewCoachRequestRepository(db), nil, nil, nil, nil, nil)

		if _, err := service.MarkRequestUnderReview(context.Background(), 3); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("status %q: expected ErrInvalidStateTransition, got %v", status, err)
		}
	}
}

func TestMarkRequestUnderReviewMapsLostRace(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, _ ...any) stubRow {
			if strings.Contains(query, "UPDATE coach_requests") {
				return stubRow{err: pgx.ErrNoRows}
			}
			return stubRow{values: requestRowValues(3, 42, models.RequestStatusPending)}
		},
	}
	service := NewApprovalService(nil, repository.NewCoachRequestRepository(db), nil, nil, nil, nil, nil)

	if _, err := service.MarkRequestUnderReview(context.Background(), 3); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on lost race, got %v", err)
	}
}

func TestDecideAssignmentRejectsUnknownStatus(t *testing.T) {
	service := NewApprovalService(nil, nil, nil, nil, nil, nil, nil)

	if _, err := service.DecideAssignment(context.Background(), 1, models.RoleAdmin, 7, models.AssignmentStatus("banana")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := service.DecideAssignment(context.Background(), 1, models.RoleAdmin, 7, models.AssignmentStatusPending); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for pending target, got %v", err)
	}
}

func TestDecideAssignmentForbidsNonOwningCoach(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
			return stubRow{values: assignmentRowValues(7, 5, 42, models.AssignmentStatusPending)}
		},
	}
	clubRepo := &stubClubReader{club: &models.Club{ID: 5, OwnerUserID: 99}}
	service := NewApprovalService(nil, nil, nil, repository.NewClubCoachRepository(db), clubRepo, nil, nil)

	if _, err := service.DecideAssignment(context.Background(), 1, models.RoleMainCoach, 7, models.AssignmentStatusApproved); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := service.DecideAssignment(context.Background(), 99, models.RoleSecondaryCoach, 7, models.AssignmentStatusApproved); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for secondary coach, got %v", err)
	}
}

func TestDecideAssignmentApprovesForClubOwner(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, _ ...any) stubRow {
			if strings.Contains(query, "UPDATE club_coaches") {
				return stubRow{values: assignmentRowValues(7, 5, 42, models.AssignmentStatusApproved)}
			}
			return stubRow{values: assignmentRowValues(7, 5, 42, models.AssignmentStatusPending)}
		},
	}
	clubRepo := &stubClubReader{club: &models.Club{ID: 5, OwnerUserID: 99}}
	service := NewApprovalService(nil, nil, nil, repository.NewClubCoachRepository(db), clubRepo, nil, nil)

	updated, err := service.DecideAssignment(context.Background(), 99, models.RoleMainCoach, 7, models.AssignmentStatusApproved)
	if err != nil {
		t.Fatalf("DecideAssignment: %v", err)
	}
	if updated.Status != models.AssignmentStatusApproved {
		t.Fatalf("expected approved assignment, got %q", updated.Status)
	}
}

func TestDecideAssignmentRequiresPendingAssignment(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
			return stubRow{values: assignmentRowValues(7, 5, 42, models.AssignmentStatusApproved)}
		},
	}
	service := NewApprovalService(nil, nil, nil, repository.NewClubCoachRepository(db), &stubClubReader{}, nil, nil)

	if _, err := service.DecideAssignment(context.Background(), 1, models.RoleAdmin, 7, models.AssignmentStatusRejected); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestResubmitRequiresText(t *testing.T) {
	service := NewApprovalService(nil, nil, nil, nil, nil, nil, nil)

	if _, err := service.Resubmit(context.Background(), 42, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResubmitWhilePendingOnlyRefreshesInfo(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
			return stubRow{values: requestRowValues(3, 42, models.RequestStatusPending)}
		},
	}
	service := NewApprovalService(nil, repository.NewCoachRequestRepository(db), nil, nil, nil, nil, nil)

	request, err := service.Resubmit(context.Background(), 42, "updated references")
	if err != nil {
		t.Fatalf("Resubmit: %v", err)
	}
	if request.Status != models.RequestStatusPending {
		t.Fatalf("expected request to stay pending, got %q", request.Status)
	}
	if len(db.execQueries) != 1 || !strings.Contains(db.execQueries[0], "coach_request_details") {
		t.Fatalf("expected a single details upsert, got %v", db.execQueries)
	}
}

func TestResubmitRejectsDecidedRequests(t *testing.T) {
	for _, status := range []models.RequestStatus{models.RequestStatusApproved, models.RequestStatusUnderReview} {
		db := &stubDBTX{
			queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
				return stubRow{values: requestRowValues(3, 42, status)}
			},
		}
		service := NewApprovalService(nil, repository.NewCoachRequestRepository(db), nil, nil, nil, nil, nil)

		if _, err := service.Resubmit(context.Background(), 42, "more info"); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("status %q: expected ErrInvalidStateTransition, got %v", status, err)
		}
	}
}
