package repository

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

type PlayerInput struct {
	FullName     string
	JerseyNumber *int
	Position     *string
}

type PlayerRepository struct {
	db DBTX
}

func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, teamID int64, input PlayerInput) (*models.Player, error) {
	query := `
		INSERT INTO players (team_id, full_name, jersey_number, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, full_name, jersey_number, position, created_at, updated_at
	`
	return r.scanOne(ctx, query, teamID, input.FullName, input.JerseyNumber, input.Position)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := `
		SELECT id, team_id, full_name, jersey_number, position, created_at, updated_at
		FROM players
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PlayerRepository) ListByTeamID(ctx context.Context, teamID int64) ([]models.Player, error) {
	query := `
		SELECT id, team_id, full_name, jersey_number, position, created_at, updated_at
		FROM players
		WHERE team_id = $1
		ORDER BY jersey_number NULLS LAST, full_name ASC
	`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(
			&player.ID, &player.TeamID, &player.FullName,
			&player.JerseyNumber, &player.Position, &player.CreatedAt, &player.UpdatedAt,
		); err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Update(ctx context.Context, id int64, input PlayerInput) (*models.Player, error) {
	query := `
		UPDATE players
		SET full_name = $2, jersey_number = $3, position = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, team_id, full_name, jersey_number, position, created_at, updated_at
	`
	return r.scanOne(ctx, query, id, input.FullName, input.JerseyNumber, input.Position)
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM players WHERE id = $1", id)
	return err
}

func (r *PlayerRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Player, error) {
	var player models.Player
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&player.ID,
		&player.TeamID,
		&player.FullName,
		&player.JerseyNumber,
		&player.Position,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}
