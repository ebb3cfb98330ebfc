package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Tatorick/net-play-connect-sub000/internal/config"
	"github.com/Tatorick/net-play-connect-sub000/internal/database"
	"github.com/Tatorick/net-play-connect-sub000/internal/routes"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}

	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.CloseDB()

	app := fiber.New(fiber.Config{AppName: "net-play-connect"})

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if err := routes.RegisterRoutes(app, cfg, database.DB); err != nil {
		log.Fatalf("register routes: %v", err)
	}

	log.Printf("net-play-connect listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
