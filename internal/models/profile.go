package models

import "time"

// ProfileStatus is the generic approval status carried on a profile. The
// store keeps it as text; anything we do not recognize is treated as
// not-approved by the access gate.
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
)

type Profile struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	FullName  string        `json:"full_name"`
	Status    ProfileStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
