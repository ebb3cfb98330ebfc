package routes

import (
	"context"
	"errors"
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tatorick/net-play-connect-sub000/internal/config"
	"github.com/Tatorick/net-play-connect-sub000/internal/handlers"
	"github.com/Tatorick/net-play-connect-sub000/internal/middleware"
	"github.com/Tatorick/net-play-connect-sub000/internal/models"
	"github.com/Tatorick/net-play-connect-sub000/internal/notify"
	"github.com/Tatorick/net-play-connect-sub000/internal/repository"
	"github.com/Tatorick/net-play-connect-sub000/internal/services"
	statusws "github.com/Tatorick/net-play-connect-sub000/internal/websocket"
	"github.com/Tatorick/net-play-connect-sub000/pkg/utils"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	clubRepo := repository.NewClubRepository(db)
	requestRepo := repository.NewCoachRequestRepository(db)
	clubCoachRepo := repository.NewClubCoachRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	topeRepo := repository.NewTopeRepository(db)

	if err := ensureDefaultAdmin(context.Background(), db, cfg); err != nil {
		return err
	}

	var notifier services.DecisionNotifier
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.ResendFromAddress)
	}

	gateService := services.NewGateService(profileRepo, requestRepo, clubCoachRepo)
	approvalService := services.NewApprovalService(db, requestRepo, profileRepo, clubCoachRepo, clubRepo, userRepo, notifier)
	topeService := services.NewTopeService(topeRepo, teamRepo)

	hub := statusws.NewHub()
	go hub.Run()
	watcher := services.NewStatusWatcher(gateService, hub)

	membership := handlers.NewClubMembership(clubRepo, clubCoachRepo)
	authHandler := handlers.NewAuthHandler(db, userRepo, gateService, requestRepo, cfg.JWTSecret)
	approvalHandler := handlers.NewApprovalHandler(approvalService, requestRepo)
	clubHandler := handlers.NewClubHandler(clubRepo, clubCoachRepo)
	teamHandler := handlers.NewTeamHandler(teamRepo, membership)
	playerHandler := handlers.NewPlayerHandler(playerRepo, teamRepo, membership)
	topeHandler := handlers.NewTopeHandler(topeService, membership)
	statusHandler := handlers.NewStatusHandler(hub, watcher, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	// Resubmission is reachable while unapproved: it is how a rejected
	// applicant gets back to pending, so it must not sit behind the gate.
	authProtected.Post("/requests/resubmit", approvalHandler.Resubmit)

	admin := authProtected.Group("/admin", middleware.GateRequired(gateService, models.RoleAdmin))
	admin.Get("/requests", approvalHandler.ListRequests)
	admin.Get("/requests/:id", approvalHandler.GetRequest)
	admin.Post("/requests/:id/approve", approvalHandler.ApproveRequest)
	admin.Post("/requests/:id/reject", approvalHandler.RejectRequest)
	admin.Post("/requests/:id/review", approvalHandler.MarkRequestUnderReview)

	clubs := authProtected.Group("/clubs", middleware.GateRequired(gateService, models.RoleMainCoach))
	clubs.Get("/mine", clubHandler.GetMyClub)
	clubs.Put("/mine", clubHandler.UpdateMyClub)
	clubs.Post("/mine/invite-code", clubHandler.RegenerateInviteCode)
	clubs.Get("/mine/assignments", clubHandler.ListPendingAssignments)

	assignments := authProtected.Group("/assignments",
		middleware.GateRequired(gateService, models.RoleMainCoach, models.RoleAdmin))
	assignments.Post("/:id/decision", approvalHandler.DecideAssignment)

	coaching := authProtected.Group("",
		middleware.GateRequired(gateService, models.RoleMainCoach, models.RoleSecondaryCoach))
	coaching.Get("/teams", teamHandler.ListTeams)
	coaching.Post("/teams", teamHandler.CreateTeam)
	coaching.Put("/teams/:id", teamHandler.UpdateTeam)
	coaching.Delete("/teams/:id", teamHandler.DeleteTeam)
	coaching.Get("/teams/:team_id/players", playerHandler.ListPlayers)
	coaching.Post("/teams/:team_id/players", playerHandler.CreatePlayer)
	coaching.Put("/players/:id", playerHandler.UpdatePlayer)
	coaching.Delete("/players/:id", playerHandler.DeletePlayer)
	coaching.Get("/topes", topeHandler.BrowseTopes)
	coaching.Post("/topes", topeHandler.PublishTope)
	coaching.Get("/topes/:id", topeHandler.GetTope)
	coaching.Post("/topes/:id/interests", topeHandler.ExpressInterest)
	coaching.Post("/topes/:id/confirm", topeHandler.ConfirmTope)
	coaching.Post("/topes/:id/cancel", topeHandler.CancelTope)
	coaching.Post("/interests/:id/decision", topeHandler.DecideInterest)

	api.Use("/v1/ws/status", statusHandler.WebSocketAuth)
	api.Get("/v1/ws/status", websocket.New(statusHandler.HandleWebSocket))

	return nil
}

// ensureDefaultAdmin provisions the configured administrator account on
// first boot so the review queue is reachable on a fresh install.
func ensureDefaultAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	if cfg.DefaultAdminEmail == "" || cfg.DefaultAdminPassword == "" {
		return nil
	}

	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.GetByEmail(ctx, cfg.DefaultAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hashed, err := utils.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txProfileRepo := repository.NewProfileRepository(tx)

	admin := &models.User{
		Email:        cfg.DefaultAdminEmail,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	if err := txUserRepo.CreateUser(ctx, admin); err != nil {
		return err
	}
	if _, err := txProfileRepo.Create(ctx, admin.ID, cfg.DefaultAdminName, models.ProfileStatusApproved); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("Seeded default admin account %s", cfg.DefaultAdminEmail)
	return nil
}
