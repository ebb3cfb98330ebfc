package models

import "time"

const (
	RoleAdmin          = "admin"
	RoleMainCoach      = "main_coach"
	RoleSecondaryCoach = "secondary_coach"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMainCoach, RoleSecondaryCoach:
		return true
	default:
		return false
	}
}
