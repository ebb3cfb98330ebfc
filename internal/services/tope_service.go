package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
)

var ErrTopeClosed = errors.New("tope is not open")

type topeStore interface {
	Create(ctx context.Context, input repository.CreateTopeInput) (*models.Tope, error)
	GetByID(ctx context.Context, id int64) (*models.Tope, error)
	List(ctx context.Context, filter repository.TopeListFilter) ([]models.Tope, error)
	UpdateStatusIfCurrent(ctx context.Context, id int64, current, next models.TopeStatus) (*models.Tope, error)
	CreateInterest(ctx context.Context, topeID, clubID, teamID int64) (*models.TopeInterest, error)
	GetInterestByID(ctx context.Context, id int64) (*models.TopeInterest, error)
	UpdateInterestStatusIfCurrent(ctx context.Context, id int64, current, next models.InterestStatus) (*models.TopeInterest, error)
	ListInterests(ctx context.Context, topeID int64) ([]models.TopeInterest, error)
}

type teamReader interface {
	GetByID(ctx context.Context, id int64) (*models.Team, error)
}

// TopeService runs the friendly-match bulletin board: a club publishes an
// offer, other clubs browse and express interest, the host accepts or
// rejects interests and finally confirms or cancels the posting.
type TopeService struct {
	topeRepo topeStore
	teamRepo teamReader
}

func NewTopeService(topeRepo topeStore, teamRepo teamReader) *TopeService {
	return &TopeService{topeRepo: topeRepo, teamRepo: teamRepo}
}

type PublishTopeInput struct {
	TeamID      int64
	ScheduledAt time.Time
	Location    string
	Category    string
	Notes       *string
}

func (s *TopeService) Publish(ctx context.Context, clubID int64, input PublishTopeInput) (*models.Tope, error) {
	input.Location = strings.TrimSpace(input.Location)
	input.Category = strings.TrimSpace(input.Category)
	if input.TeamID <= 0 || input.Location == "" || input.Category == "" {
		return nil, ErrInvalidInput
	}
	if !input.ScheduledAt.After(time.Now()) {
		return nil, ErrInvalidInput
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}
	if team.ClubID != clubID {
		return nil, ErrForbidden
	}

	return s.topeRepo.Create(ctx, repository.CreateTopeInput{
		ClubID:      clubID,
		TeamID:      input.TeamID,
		ScheduledAt: input.ScheduledAt,
		Location:    input.Location,
		Category:    input.Category,
		Notes:       input.Notes,
	})
}

// Browse lists open postings, excluding the caller's own club so a coach
// only sees offers they could answer.
func (s *TopeService) Browse(ctx context.Context, clubID int64, filter repository.TopeListFilter) ([]models.Tope, error) {
	filter.Status = models.TopeStatusOpen
	filter.ExcludeClubID = clubID
	return s.topeRepo.List(ctx, filter)
}

// GetDetail returns a posting with its interests. Interests are only
// visible to the hosting club.
func (s *TopeService) GetDetail(ctx context.Context, clubID, topeID int64) (*models.TopeDetail, error) {
	tope, err := s.topeRepo.GetByID(ctx, topeID)
	if err != nil {
		return nil, err
	}
	detail := &models.TopeDetail{Tope: *tope}
	if tope.ClubID == clubID {
		interests, err := s.topeRepo.ListInterests(ctx, topeID)
		if err != nil {
			return nil, err
		}
		detail.Interests = interests
	}
	return detail, nil
}

func (s *TopeService) ExpressInterest(ctx context.Context, clubID, topeID, teamID int64) (*models.TopeInterest, error) {
	tope, err := s.topeRepo.GetByID(ctx, topeID)
	if err != nil {
		return nil, err
	}
	if tope.Status != models.TopeStatusOpen {
		return nil, ErrTopeClosed
	}
	if tope.ClubID == clubID {
		return nil, ErrInvalidInput
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.ClubID != clubID {
		return nil, ErrForbidden
	}

	return s.topeRepo.CreateInterest(ctx, topeID, clubID, teamID)
}

// DecideInterest lets the hosting club accept or reject an expressed
// interest. Accepting registers the guest team against the posting; the
// posting itself is confirmed separately.
func (s *TopeService) DecideInterest(ctx context.Context, clubID, interestID int64, accept bool) (*models.TopeInterest, error) {
	interest, err := s.topeRepo.GetInterestByID(ctx, interestID)
	if err != nil {
		return nil, err
	}
	tope, err := s.topeRepo.GetByID(ctx, interest.TopeID)
	if err != nil {
		return nil, err
	}
	if tope.ClubID != clubID {
		return nil, ErrForbidden
	}
	if tope.Status != models.TopeStatusOpen {
		return nil, ErrTopeClosed
	}
	if interest.Status != models.InterestStatusInterested {
		return nil, ErrInvalidStateTransition
	}

	next := models.InterestStatusRejected
	if accept {
		next = models.InterestStatusAccepted
	}
	updated, err := s.topeRepo.UpdateInterestStatusIfCurrent(ctx, interestID, interest.Status, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

// Confirm closes an open posting as agreed. Requires at least one accepted
// interest so a host cannot confirm a match nobody registered for.
func (s *TopeService) Confirm(ctx context.Context, clubID, topeID int64) (*models.Tope, error) {
	tope, err := s.topeRepo.GetByID(ctx, topeID)
	if err != nil {
		return nil, err
	}
	if tope.ClubID != clubID {
		return nil, ErrForbidden
	}
	if tope.Status != models.TopeStatusOpen {
		return nil, ErrInvalidStateTransition
	}

	interests, err := s.topeRepo.ListInterests(ctx, topeID)
	if err != nil {
		return nil, err
	}
	hasAccepted := false
	for _, interest := range interests {
		if interest.Status == models.InterestStatusAccepted {
			hasAccepted = true
			break
		}
	}
	if !hasAccepted {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.topeRepo.UpdateStatusIfCurrent(ctx, topeID, tope.Status, models.TopeStatusConfirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

// Cancel withdraws a posting. Allowed from open or confirmed; cancelled is
// terminal.
func (s *TopeService) Cancel(ctx context.Context, clubID, topeID int64) (*models.Tope, error) {
	tope, err := s.topeRepo.GetByID(ctx, topeID)
	if err != nil {
		return nil, err
	}
	if tope.ClubID != clubID {
		return nil, ErrForbidden
	}
	if tope.Status == models.TopeStatusCancelled {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.topeRepo.UpdateStatusIfCurrent(ctx, topeID, tope.Status, models.TopeStatusCancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}
