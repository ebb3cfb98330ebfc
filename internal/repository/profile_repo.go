package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, userID int64, fullName string, status models.ProfileStatus) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, full_name, status, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, fullName, status).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT id, user_id, full_name, status, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateStatus sets the profile's generic status unconditionally. Used by
// the approval transaction to mirror a request decision onto the profile.
func (r *ProfileRepository) UpdateStatus(ctx context.Context, userID int64, status models.ProfileStatus) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, full_name, status, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, status).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
