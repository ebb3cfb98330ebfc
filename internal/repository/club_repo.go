package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type CreateClubInput struct {
	Name         string
	City         *string
	ContactEmail *string
	InviteCode   string
	OwnerUserID  int64
}

type UpdateClubInput struct {
	Name         string
	City         *string
	ContactEmail *string
}

type ClubRepository struct {
	db DBTX
}

func NewClubRepository(db DBTX) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Create(ctx context.Context, input CreateClubInput) (*models.Club, error) {
	query := `
		INSERT INTO clubs (name, city, contact_email, invite_code, owner_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
	`
	var club models.Club
	err := r.db.QueryRow(ctx, query, input.Name, input.City, input.ContactEmail, input.InviteCode, input.OwnerUserID).
		Scan(&club.ID, &club.Name, &club.City, &club.ContactEmail, &club.InviteCode, &club.OwnerUserID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	query := `
		SELECT id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
		FROM clubs
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *ClubRepository) GetByOwnerUserID(ctx context.Context, ownerUserID int64) (*models.Club, error) {
	query := `
		SELECT id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
		FROM clubs
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(ctx, query, ownerUserID)
}

func (r *ClubRepository) GetByInviteCode(ctx context.Context, inviteCode string) (*models.Club, error) {
	query := `
		SELECT id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
		FROM clubs
		WHERE invite_code = $1
	`
	return r.scanOne(ctx, query, inviteCode)
}

func (r *ClubRepository) Update(ctx context.Context, id int64, input UpdateClubInput) (*models.Club, error) {
	query := `
		UPDATE clubs
		SET name = $2, city = $3, contact_email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, input.Name, input.City, input.ContactEmail)
}

func (r *ClubRepository) UpdateInviteCode(ctx context.Context, id int64, inviteCode string) (*models.Club, error) {
	query := `
		UPDATE clubs
		SET invite_code = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, city, contact_email, invite_code, owner_user_id, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, inviteCode)
}

func (r *ClubRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Club, error) {
	var club models.Club
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.ContactEmail,
		&club.InviteCode,
		&club.OwnerUserID,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}
