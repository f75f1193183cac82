package main

import (
	"inap/config"
	"inap/di"
	"inap/helper"
	"inap/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database migrations")
	}

	server := di.InitializeService()
	server.Serve()
}
