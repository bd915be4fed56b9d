package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"warehub/config"
	"warehub/di"
	"warehub/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("Starting up worker.")

	if err := di.InitializeWorker().Run(ctx); err != nil {
		log.Error().Err(err).Msg("Worker stopped with error")

		stop()
		os.Exit(1)
	}

	log.Info().Msg("Worker stopped.")
}
