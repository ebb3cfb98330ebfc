package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
)

type stubTopeService struct {
	tope     *models.Tope
	detail   *models.TopeDetail
	interest *models.TopeInterest
	err      error

	lastClubID  int64
	lastPublish services.PublishTopeInput
	lastTopeID  int64
	lastTeamID  int64
	lastAccept  bool
}

func (s *stubTopeService) Publish(_ context.Context, clubID int64, input services.PublishTopeInput) (*models.Tope, error) {
	s.lastClubID = clubID
	s.lastPublish = input
	if s.err != nil {
		return nil, s.err
	}
	return s.tope, nil
}

func (s *stubTopeService) Browse(_ context.Context, clubID int64, _ repository.TopeListFilter) ([]models.Tope, error) {
	s.lastClubID = clubID
	if s.err != nil {
		return nil, s.err
	}
	return []models.Tope{}, nil
}

func (s *stubTopeService) GetDetail(_ context.Context, clubID, topeID int64) (*models.TopeDetail, error) {
	s.lastClubID = clubID
	s.lastTopeID = topeID
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubTopeService) ExpressInterest(_ context.Context, clubID, topeID, teamID int64) (*models.TopeInterest, error) {
	s.lastClubID = clubID
	s.lastTopeID = topeID
	s.lastTeamID = teamID
	if s.err != nil {
		return nil, s.err
	}
	return s.interest, nil
}

func (s *stubTopeService) DecideInterest(_ context.Context, clubID, interestID int64, accept bool) (*models.TopeInterest, error) {
	s.lastClubID = clubID
	s.lastTopeID = interestID
	s.lastAccept = accept
	if s.err != nil {
		return nil, s.err
	}
	return s.interest, nil
}

func (s *stubTopeService) Confirm(_ context.Context, clubID, topeID int64) (*models.Tope, error) {
	s.lastClubID = clubID
	s.lastTopeID = topeID
	if s.err != nil {
		return nil, s.err
	}
	return s.tope, nil
}

func (s *stubTopeService) Cancel(_ context.Context, clubID, topeID int64) (*models.Tope, error) {
	s.lastClubID = clubID
	s.lastTopeID = topeID
	if s.err != nil {
		return nil, s.err
	}
	return s.tope, nil
}

type stubOwnedClubReader struct {
	club *models.Club
	err  error
}

func (r *stubOwnedClubReader) GetByOwnerUserID(_ context.Context, _ int64) (*models.Club, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.club, nil
}

type stubLatestAssignmentReader struct {
	assignment *models.ClubCoach
	err        error
}

func (r *stubLatestAssignmentReader) GetLatestByUserID(_ context.Context, _ int64) (*models.ClubCoach, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.assignment, nil
}

func newTopeTestApp(service *stubTopeService, membership *ClubMembership, role string) *fiber.App {
	handler := &TopeHandler{service: service, membership: membership}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", int64(42))
		c.Locals("role", role)
		return c.Next()
	})
	app.Post("/topes", handler.PublishTope)
	app.Get("/topes", handler.BrowseTopes)
	app.Get("/topes/:id", handler.GetTope)
	app.Post("/topes/:id/interests", handler.ExpressInterest)
	app.Post("/interests/:id/decision", handler.DecideInterest)
	app.Post("/topes/:id/confirm", handler.ConfirmTope)
	app.Post("/topes/:id/cancel", handler.CancelTope)
	return app
}

func mainCoachMembership() *ClubMembership {
	return NewClubMembership(&stubOwnedClubReader{club: &models.Club{ID: 5, OwnerUserID: 42}}, &stubLatestAssignmentReader{})
}

func TestPublishTopeResolvesClubAndParsesSchedule(t *testing.T) {
	service := &stubTopeService{tope: &models.Tope{ID: 1, ClubID: 5, Status: models.TopeStatusOpen}}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	body := `{"team_id":2,"scheduled_at":"2030-06-01T18:00:00Z","location":"Quito","category":"sub-16"}`
	req := httptest.NewRequest("POST", "/topes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastClubID != 5 {
		t.Fatalf("expected acting club 5, got %d", service.lastClubID)
	}
	want := time.Date(2030, 6, 1, 18, 0, 0, 0, time.UTC)
	if !service.lastPublish.ScheduledAt.Equal(want) {
		t.Fatalf("expected parsed schedule %v, got %v", want, service.lastPublish.ScheduledAt)
	}
}

func TestPublishTopeRejectsBadSchedule(t *testing.T) {
	app := newTopeTestApp(&stubTopeService{}, mainCoachMembership(), models.RoleMainCoach)

	req := httptest.NewRequest("POST", "/topes", bytes.NewBufferString(`{"team_id":2,"scheduled_at":"tomorrow"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBrowseTopesUsesSecondaryCoachAssignment(t *testing.T) {
	service := &stubTopeService{}
	membership := NewClubMembership(
		&stubOwnedClubReader{},
		&stubLatestAssignmentReader{assignment: &models.ClubCoach{ID: 8, ClubID: 7, UserID: 42, Status: models.AssignmentStatusApproved}},
	)
	app := newTopeTestApp(service, membership, models.RoleSecondaryCoach)

	resp, err := app.Test(httptest.NewRequest("GET", "/topes", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastClubID != 7 {
		t.Fatalf("expected assignment club 7, got %d", service.lastClubID)
	}
}

func TestBrowseTopesRefusesUnapprovedAssignment(t *testing.T) {
	membership := NewClubMembership(
		&stubOwnedClubReader{},
		&stubLatestAssignmentReader{assignment: &models.ClubCoach{ID: 8, ClubID: 7, UserID: 42, Status: models.AssignmentStatusPending}},
	)
	app := newTopeTestApp(&stubTopeService{}, membership, models.RoleSecondaryCoach)

	resp, err := app.Test(httptest.NewRequest("GET", "/topes", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestExpressInterestPassesIdentifiers(t *testing.T) {
	service := &stubTopeService{interest: &models.TopeInterest{ID: 10, Status: models.InterestStatusInterested}}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	req := httptest.NewRequest("POST", "/topes/3/interests", bytes.NewBufferString(`{"team_id":2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastTopeID != 3 || service.lastTeamID != 2 {
		t.Fatalf("expected tope 3 team 2, got %d %d", service.lastTopeID, service.lastTeamID)
	}
}

func TestExpressInterestMapsClosedTope(t *testing.T) {
	service := &stubTopeService{err: services.ErrTopeClosed}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	req := httptest.NewRequest("POST", "/topes/3/interests", bytes.NewBufferString(`{"team_id":2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestExpressInterestMapsDuplicateInterest(t *testing.T) {
	service := &stubTopeService{err: &pgconn.PgError{Code: "23505"}}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	req := httptest.NewRequest("POST", "/topes/3/interests", bytes.NewBufferString(`{"team_id":2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for repeated interest, got %d", resp.StatusCode)
	}
}

func TestDecideInterestPassesAcceptFlag(t *testing.T) {
	service := &stubTopeService{interest: &models.TopeInterest{ID: 10, Status: models.InterestStatusAccepted}}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	req := httptest.NewRequest("POST", "/interests/10/decision", bytes.NewBufferString(`{"accept":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !service.lastAccept {
		t.Fatalf("expected accept flag to pass through")
	}
}

func TestConfirmTopeMapsInvalidTransition(t *testing.T) {
	service := &stubTopeService{err: services.ErrInvalidStateTransition}
	app := newTopeTestApp(service, mainCoachMembership(), models.RoleMainCoach)

	resp, err := app.Test(httptest.NewRequest("POST", "/topes/3/confirm", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
