package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type CreateTopeInput struct {
	ClubID      int64
	TeamID      int64
	ScheduledAt time.Time
	Location    string
	Category    string
	Notes       *string
}

type TopeListFilter struct {
	Category      string
	From          *time.Time
	To            *time.Time
	ExcludeClubID int64
	Status        models.TopeStatus
}

type TopeRepository struct {
	db DBTX
}

func NewTopeRepository(db DBTX) *TopeRepository {
	return &TopeRepository{db: db}
}

func (r *TopeRepository) Create(ctx context.Context, input CreateTopeInput) (*models.Tope, error) {
	query := `
		INSERT INTO topes (club_id, team_id, scheduled_at, location, category, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'open')
		RETURNING id, club_id, team_id, scheduled_at, location, category, notes, status, created_at, updated_at
	`
	return r.scanOne(ctx, query,
		input.ClubID, input.TeamID, input.ScheduledAt.UTC(), input.Location, input.Category, input.Notes)
}

func (r *TopeRepository) GetByID(ctx context.Context, id int64) (*models.Tope, error) {
	query := `
		SELECT id, club_id, team_id, scheduled_at, location, category, notes, status, created_at, updated_at
		FROM topes
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *TopeRepository) List(ctx context.Context, filter TopeListFilter) ([]models.Tope, error) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(filter.Category))
	}
	if filter.From != nil {
		conditions = append(conditions, "scheduled_at >= "+arg(filter.From.UTC()))
	}
	if filter.To != nil {
		conditions = append(conditions, "scheduled_at <= "+arg(filter.To.UTC()))
	}
	if filter.ExcludeClubID != 0 {
		conditions = append(conditions, "club_id <> "+arg(filter.ExcludeClubID))
	}

	query := `
		SELECT id, club_id, team_id, scheduled_at, location, category, notes, status, created_at, updated_at
		FROM topes
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_at ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topes := []models.Tope{}
	for rows.Next() {
		var tope models.Tope
		if err := rows.Scan(
			&tope.ID, &tope.ClubID, &tope.TeamID, &tope.ScheduledAt, &tope.Location,
			&tope.Category, &tope.Notes, &tope.Status, &tope.CreatedAt, &tope.UpdatedAt,
		); err != nil {
			return nil, err
		}
		topes = append(topes, tope)
	}
	return topes, rows.Err()
}

func (r *TopeRepository) UpdateStatusIfCurrent(ctx context.Context, id int64, current, next models.TopeStatus) (*models.Tope, error) {
	query := `
		UPDATE topes
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, club_id, team_id, scheduled_at, location, category, notes, status, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, current, next)
}

func (r *TopeRepository) CreateInterest(ctx context.Context, topeID, clubID, teamID int64) (*models.TopeInterest, error) {
	query := `
		INSERT INTO tope_interests (tope_id, club_id, team_id, status)
		VALUES ($1, $2, $3, 'interested')
		RETURNING id, tope_id, club_id, team_id, status, created_at, updated_at
	`
	return r.scanInterest(ctx, query, topeID, clubID, teamID)
}

func (r *TopeRepository) GetInterestByID(ctx context.Context, id int64) (*models.TopeInterest, error) {
	query := `
		SELECT id, tope_id, club_id, team_id, status, created_at, updated_at
		FROM tope_interests
		WHERE id = $1
	`
	return r.scanInterest(ctx, query, id)
}

func (r *TopeRepository) UpdateInterestStatusIfCurrent(ctx context.Context, id int64, current, next models.InterestStatus) (*models.TopeInterest, error) {
	query := `
		UPDATE tope_interests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, tope_id, club_id, team_id, status, created_at, updated_at
	`
	return r.scanInterest(ctx, query, id, current, next)
}

func (r *TopeRepository) ListInterests(ctx context.Context, topeID int64) ([]models.TopeInterest, error) {
	query := `
		SELECT id, tope_id, club_id, team_id, status, created_at, updated_at
		FROM tope_interests
		WHERE tope_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, topeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interests := []models.TopeInterest{}
	for rows.Next() {
		var interest models.TopeInterest
		if err := rows.Scan(
			&interest.ID, &interest.TopeID, &interest.ClubID, &interest.TeamID,
			&interest.Status, &interest.CreatedAt, &interest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		interests = append(interests, interest)
	}
	return interests, rows.Err()
}

func (r *TopeRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Tope, error) {
	var tope models.Tope
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&tope.ID,
		&tope.ClubID,
		&tope.TeamID,
		&tope.ScheduledAt,
		&tope.Location,
		&tope.Category,
		&tope.Notes,
		&tope.Status,
		&tope.CreatedAt,
		&tope.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tope, nil
}

func (r *TopeRepository) scanInterest(ctx context.Context, query string, args ...any) (*models.TopeInterest, error) {
	var interest models.TopeInterest
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&interest.ID,
		&interest.TopeID,
		&interest.ClubID,
		&interest.TeamID,
		&interest.Status,
		&interest.CreatedAt,
		&interest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &interest, nil
}
