package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type CoachRequestRepository struct {
	db DBTX
}

func NewCoachRequestRepository(db DBTX) *CoachRequestRepository {
	return &CoachRequestRepository{db: db}
}

func (r *CoachRequestRepository) Create(ctx context.Context, userID, clubID int64) (*models.CoachRequest, error) {
	query := `
		INSERT INTO coach_requests (user_id, club_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, user_id, club_id, status, created_at, updated_at
	`
	return r.scanOne(ctx, query, userID, clubID)
}

func (r *CoachRequestRepository) GetByID(ctx context.Context, id int64) (*models.CoachRequest, error) {
	query := `
		SELECT id, user_id, club_id, status, created_at, updated_at
		FROM coach_requests
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetLatestByUserID returns the request driving the applicant's gate state.
// At most one active request per applicant is expected; the newest wins if
// the store ever holds more.
func (r *CoachRequestRepository) GetLatestByUserID(ctx context.Context, userID int64) (*models.CoachRequest, error) {
	query := `
		SELECT id, user_id, club_id, status, created_at, updated_at
		FROM coach_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(ctx, query, userID)
}

// UpdateStatusIfCurrent transitions the request status only when the stored
// value still matches the expected one. A pgx.ErrNoRows result means the
// row moved underneath the caller.
func (r *CoachRequestRepository) UpdateStatusIfCurrent(ctx context.Context, id int64, current, next models.RequestStatus) (*models.CoachRequest, error) {
	query := `
		UPDATE coach_requests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, user_id, club_id, status, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, current, next)
}

func (r *CoachRequestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.CoachRequestSummary, error) {
	query := `
		SELECT cr.id, cr.user_id, cr.club_id, cr.status, cr.created_at, cr.updated_at,
		       p.full_name, u.email, c.name, c.city
		FROM coach_requests cr
		JOIN users u ON u.id = cr.user_id
		JOIN profiles p ON p.user_id = cr.user_id
		JOIN clubs c ON c.id = cr.club_id
		WHERE cr.status = $1
		ORDER BY cr.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.CoachRequestSummary{}
	for rows.Next() {
		var s models.CoachRequestSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.ClubID, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&s.ApplicantName, &s.ApplicantEmail, &s.ClubName, &s.ClubCity,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *CoachRequestRepository) GetDetail(ctx context.Context, requestID int64) (*models.CoachRequestDetail, error) {
	query := `
		SELECT request_id, additional_info, rejection_reason, admin_notes, updated_at
		FROM coach_request_details
		WHERE request_id = $1
	`
	var detail models.CoachRequestDetail
	err := r.db.QueryRow(ctx, query, requestID).Scan(
		&detail.RequestID,
		&detail.AdditionalInfo,
		&detail.RejectionReason,
		&detail.AdminNotes,
		&detail.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpsertAdditionalInfo records the applicant's resubmission text without
// touching any previously stored rejection reason or admin notes.
func (r *CoachRequestRepository) UpsertAdditionalInfo(ctx context.Context, requestID int64, additionalInfo string) error {
	query := `
		INSERT INTO coach_request_details (request_id, additional_info)
		VALUES ($1, $2)
		ON CONFLICT (request_id)
		DO UPDATE SET additional_info = EXCLUDED.additional_info, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, requestID, additionalInfo)
	return err
}

// UpsertReviewNotes records the reviewer's rejection reason and notes
// without touching the applicant's additional information.
func (r *CoachRequestRepository) UpsertReviewNotes(ctx context.Context, requestID int64, rejectionReason, adminNotes *string) error {
	query := `
		INSERT INTO coach_request_details (request_id, rejection_reason, admin_notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id)
		DO UPDATE SET rejection_reason = EXCLUDED.rejection_reason,
		              admin_notes = EXCLUDED.admin_notes,
		              updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, requestID, rejectionReason, adminNotes)
	return err
}

func (r *CoachRequestRepository) scanOne(ctx context.Context, query string, args ...any) (*models.CoachRequest, error) {
	var request models.CoachRequest
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&request.ID,
		&request.UserID,
		&request.ClubID,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
