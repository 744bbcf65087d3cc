package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/drakos74/free-fit/infra/config"
	"github.com/drakos74/free-fit/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	cfg := config.LoadFit("fit")
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create server")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Int("port", cfg.Port).
		Str("engine", cfg.Engine).
		Int("digits", cfg.Digits).
		Msg("starting fit server")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
