package models

import "time"

// TopeStatus is the lifecycle of a friendly-match posting on the bulletin
// board. confirmed and cancelled are terminal.
type TopeStatus string

const (
	TopeStatusOpen      TopeStatus = "open"
	TopeStatusConfirmed TopeStatus = "confirmed"
	TopeStatusCancelled TopeStatus = "cancelled"
)

// InterestStatus is the lifecycle of a guest club's interest in a posting.
type InterestStatus string

const (
	InterestStatusInterested InterestStatus = "interested"
	InterestStatusAccepted   InterestStatus = "accepted"
	InterestStatusRejected   InterestStatus = "rejected"
)

type Tope struct {
	ID          int64      `json:"id"`
	ClubID      int64      `json:"club_id"`
	TeamID      int64      `json:"team_id"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	Notes       *string    `json:"notes"`
	Status      TopeStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TopeInterest struct {
	ID        int64          `json:"id"`
	TopeID    int64          `json:"tope_id"`
	ClubID    int64          `json:"club_id"`
	TeamID    int64          `json:"team_id"`
	Status    InterestStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TopeDetail is a posting with its expressed interests, as the host sees it.
type TopeDetail struct {
	Tope
	Interests []TopeInterest `json:"interests,omitempty"`
}
