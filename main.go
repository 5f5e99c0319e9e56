package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/apps/go-server/internal/auth"
	"github.com/robalobadob/wordchain/apps/go-server/internal/chain"
	"github.com/robalobadob/wordchain/apps/go-server/internal/config"
	"github.com/robalobadob/wordchain/apps/go-server/internal/db"
	"github.com/robalobadob/wordchain/apps/go-server/internal/game"
	"github.com/robalobadob/wordchain/apps/go-server/internal/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	accounts := auth.NewService(conn, cfg.JWTSecret, cfg.JWTExpiry)
	ctrl := game.NewController(chain.New(), accounts,
		game.WithLogger(log.With().Str("component", "chain").Logger()))

	srv := httpserver.New(ctrl, accounts, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		Cookies:      auth.Cookies{Name: cfg.CookieName, Secure: cfg.Production},
		Logger:       log.With().Str("component", "http").Logger(),
	})
	log.Info().Int("port", cfg.Port).Msg("starting wordchain server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
