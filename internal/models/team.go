package models

import "time"

type Team struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"club_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Player struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	FullName     string    `json:"full_name"`
	JerseyNumber *int      `json:"jersey_number"`
	Position     *string   `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
