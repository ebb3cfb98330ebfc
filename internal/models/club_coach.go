package models

import "time"

// AssignmentStatus is the lifecycle of a secondary coach's membership in a
// club. Rejection is terminal for this path; there is no resubmission.
type AssignmentStatus string

const (
	AssignmentStatusPending  AssignmentStatus = "pending"
	AssignmentStatusApproved AssignmentStatus = "approved"
	AssignmentStatusRejected AssignmentStatus = "rejected"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusApproved, AssignmentStatusRejected:
		return true
	default:
		return false
	}
}

type ClubCoach struct {
	ID        int64            `json:"id"`
	ClubID    int64            `json:"club_id"`
	UserID    int64            `json:"user_id"`
	Status    AssignmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ClubCoachSummary joins an assignment with the applying coach, for the
// club owner's pending list.
type ClubCoachSummary struct {
	ClubCoach
	CoachName  string `json:"coach_name"`
	CoachEmail string `json:"coach_email"`
}
