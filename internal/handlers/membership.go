package handlers

import (
	"context"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type ownedClubReader interface {
	GetByOwnerUserID(ctx context.Context, ownerUserID int64) (*models.Club, error)
}

type latestAssignmentReader interface {
	GetLatestByUserID(ctx context.Context, userID int64) (*models.ClubCoach, error)
}

// ClubMembership maps an acting coach to the club they work in: main
// coaches through ownership, secondary coaches through their approved
// assignment. Routes using it sit behind the gate, so an unapproved
// assignment here means something slipped and we still refuse.
type ClubMembership struct {
	clubRepo      ownedClubReader
	clubCoachRepo latestAssignmentReader
}

func NewClubMembership(clubRepo ownedClubReader, clubCoachRepo latestAssignmentReader) *ClubMembership {
	return &ClubMembership{clubRepo: clubRepo, clubCoachRepo: clubCoachRepo}
}

func (m *ClubMembership) ClubIDForActor(ctx context.Context, userID int64, role string) (int64, error) {
	switch role {
	case models.RoleMainCoach:
		club, err := m.clubRepo.GetByOwnerUserID(ctx, userID)
		if err != nil {
			return 0, err
		}
		return club.ID, nil
	case models.RoleSecondaryCoach:
		assignment, err := m.clubCoachRepo.GetLatestByUserID(ctx, userID)
		if err != nil {
			return 0, err
		}
		if assignment.Status != models.AssignmentStatusApproved {
			return 0, services.ErrForbidden
		}
		return assignment.ClubID, nil
	default:
		return 0, services.ErrForbidden
	}
}
