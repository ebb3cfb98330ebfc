package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type TeamInput struct {
	Name     string
	Category string
}

type TeamRepository struct {
	db DBTX
}

func NewTeamRepository(db DBTX) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, clubID int64, input TeamInput) (*models.Team, error) {
	query := `
		INSERT INTO teams (club_id, name, category)
		VALUES ($1, $2, $3)
		RETURNING id, club_id, name, category, created_at, updated_at
	`
	return r.scanOne(ctx, query, clubID, input.Name, input.Category)
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `
		SELECT id, club_id, name, category, created_at, updated_at
		FROM teams
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *TeamRepository) ListByClubID(ctx context.Context, clubID int64) ([]models.Team, error) {
	query := `
		SELECT id, club_id, name, category, created_at, updated_at
		FROM teams
		WHERE club_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.ClubID, &team.Name, &team.Category, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Update(ctx context.Context, id int64, input TeamInput) (*models.Team, error) {
	query := `
		UPDATE teams
		SET name = $2, category = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, club_id, name, category, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, input.Name, input.Category)
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM teams WHERE id = $1", id)
	return err
}

func (r *TeamRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Team, error) {
	var team models.Team
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&team.ID,
		&team.ClubID,
		&team.Name,
		&team.Category,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}
