package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DBUrl                string
	JWTSecret            string
	AppEnv               string
	ResendAPIKey         string
	ResendFromAddress    string
	DefaultAdminEmail    string
	DefaultAdminPassword string
	DefaultAdminName     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DBUrl:                os.Getenv("DB_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AppEnv:               getEnv("APP_ENV", "development"),
		ResendAPIKey:         os.Getenv("RESEND_API_KEY"),
		ResendFromAddress:    os.Getenv("RESEND_FROM_ADDRESS"),
		DefaultAdminEmail:    strings.ToLower(os.Getenv("DEFAULT_ADMIN_EMAIL")),
		DefaultAdminPassword: os.Getenv("DEFAULT_ADMIN_PASSWORD"),
		DefaultAdminName:     getEnv("DEFAULT_ADMIN_NAME", "Administrador"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ResendAPIKey != "" && cfg.ResendFromAddress == "" {
		return nil, fmt.Errorf("RESEND_FROM_ADDRESS is required when RESEND_API_KEY is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
