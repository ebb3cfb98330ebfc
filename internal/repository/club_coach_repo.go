package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type ClubCoachRepository struct {
	db DBTX
}

func NewClubCoachRepository(db DBTX) *ClubCoachRepository {
	return &ClubCoachRepository{db: db}
}

func (r *ClubCoachRepository) Create(ctx context.Context, clubID, userID int64) (*models.ClubCoach, error) {
	query := `
		INSERT INTO club_coaches (club_id, user_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, club_id, user_id, status, created_at, updated_at
	`
	return r.scanOne(ctx, query, clubID, userID)
}

func (r *ClubCoachRepository) GetByID(ctx context.Context, id int64) (*models.ClubCoach, error) {
	query := `
		SELECT id, club_id, user_id, status, created_at, updated_at
		FROM club_coaches
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetLatestByUserID returns the assignment driving a secondary coach's gate
// state, newest first.
func (r *ClubCoachRepository) GetLatestByUserID(ctx context.Context, userID int64) (*models.ClubCoach, error) {
	query := `
		SELECT id, club_id, user_id, status, created_at, updated_at
		FROM club_coaches
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(ctx, query, userID)
}

func (r *ClubCoachRepository) UpdateStatusIfCurrent(ctx context.Context, id int64, current, next models.AssignmentStatus) (*models.ClubCoach, error) {
	query := `
		UPDATE club_coaches
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, club_id, user_id, status, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, current, next)
}

func (r *ClubCoachRepository) ListByClubAndStatus(ctx context.Context, clubID int64, status models.AssignmentStatus) ([]models.ClubCoachSummary, error) {
	query := `
		SELECT cc.id, cc.club_id, cc.user_id, cc.status, cc.created_at, cc.updated_at,
		       p.full_name, u.email
		FROM club_coaches cc
		JOIN users u ON u.id = cc.user_id
		JOIN profiles p ON p.user_id = cc.user_id
		WHERE cc.club_id = $1 AND cc.status = $2
		ORDER BY cc.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, clubID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.ClubCoachSummary{}
	for rows.Next() {
		var s models.ClubCoachSummary
		if err := rows.Scan(
			&s.ID, &s.ClubID, &s.UserID, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&s.CoachName, &s.CoachEmail,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *ClubCoachRepository) scanOne(ctx context.Context, query string, args ...any) (*models.ClubCoach, error) {
	var assignment models.ClubCoach
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&assignment.ID,
		&assignment.ClubID,
		&assignment.UserID,
		&assignment.Status,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
