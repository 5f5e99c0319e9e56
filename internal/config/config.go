// internal/config/config.go
//
// Runtime configuration from the environment.
//
// Load reads an optional .env file (godotenv) and then environment
// variables, falling back to development defaults:
//
//	PORT=5175
//	LOG_LEVEL=info
//	DB_PATH=./data/app.db
//	JWT_SECRET=dev_secret_change_me
//	JWT_EXPIRES_DAYS=14
//	COOKIE_NAME=wordchain_token
//	CLIENT_ORIGIN=http://localhost:5173
//	NODE_ENV=            (production → secure cookies, JSON logs)
//
// In production the default JWT secret is refused.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultJWTSecret is the development signing key.
const DefaultJWTSecret = "dev_secret_change_me"

// Config holds the server settings.
type Config struct {
	Port         int
	LogLevel     zerolog.Level
	DBPath       string
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
}

// Load reads .env (if present) and the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		CookieName:   getEnv("COOKIE_NAME", "wordchain_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}

	port, err := strconv.Atoi(getEnv("PORT", "5175"))
	if err != nil || port <= 0 {
		return Config{}, errors.New("invalid PORT env variable")
	}
	cfg.Port = port

	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil || days <= 0 {
		return Config{}, errors.New("invalid JWT_EXPIRES_DAYS env variable")
	}
	cfg.JWTExpiry = time.Duration(days) * 24 * time.Hour

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	if cfg.Production && cfg.JWTSecret == DefaultJWTSecret {
		return Config{}, errors.New("JWT_SECRET required in production")
	}
	return cfg, nil
}

// Addr is the listen address for http.ListenAndServe.
func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
