package models

import "time"

type Club struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	City         *string   `json:"city"`
	ContactEmail *string   `json:"contact_email"`
	InviteCode   string    `json:"invite_code,omitempty"`
	OwnerUserID  int64     `json:"owner_user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
