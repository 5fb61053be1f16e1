package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/internal/config"
	"github.com/saeidalz13/battleship-solo/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(config.StageDev, "")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Stage, cfg.LogLevel)

	// Analytics are off without a database
	var psqlDb *sql.DB
	if cfg.DatabaseURL != "" {
		psqlDb = db.MustConnectToDb(cfg.DatabaseURL)
		defer psqlDb.Close()
	}

	server, err := api.NewServer(
		api.WithPort(cfg.Port),
		api.WithStage(cfg.Stage),
		api.WithDb(psqlDb),
		api.WithRules(cfg.Rules),
		api.WithComputerDelays(cfg.ComputerMoveDelay, cfg.ComputerChainDelay),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
