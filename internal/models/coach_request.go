package models

import "time"

// RequestStatus is the lifecycle of a main-coach request. under_review is a
// recognized intermediate an administrator may park a request in; only the
// literal approved value ever unlocks protected content.
type RequestStatus string

const (
	RequestStatusPending     RequestStatus = "pending"
	RequestStatusApproved    RequestStatus = "approved"
	RequestStatusRejected    RequestStatus = "rejected"
	RequestStatusUnderReview RequestStatus = "under_review"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusUnderReview:
		return true
	default:
		return false
	}
}

type CoachRequest struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	ClubID    int64         `json:"club_id"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CoachRequestDetail is the zero-or-one free-text companion row of a
// request: applicant-supplied additional information plus the reviewer's
// rejection reason and notes. Upserted, never deleted.
type CoachRequestDetail struct {
	RequestID       int64     `json:"request_id"`
	AdditionalInfo  *string   `json:"additional_info"`
	RejectionReason *string   `json:"rejection_reason"`
	AdminNotes      *string   `json:"admin_notes"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CoachRequestSummary is what the admin review queue lists: the request
// joined with its applicant and target club.
type CoachRequestSummary struct {
	CoachRequest
	ApplicantName  string  `json:"applicant_name"`
	ApplicantEmail string  `json:"applicant_email"`
	ClubName       string  `json:"club_name"`
	ClubCity       *string `json:"club_city"`
}
