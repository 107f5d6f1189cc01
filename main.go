package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	cfg       *Config
	jwtSecret []byte
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	var err error
	cfg, err = LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	jwtSecret = []byte(cfg.JWTSecret)

	// Lightweight migrate command: `./arbeitsrapport migrate` runs
	// AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		log.Info().Msg("migration and seeding completed")
		return
	}

	initDB()

	r := gin.Default()

	setupRoutes(r)

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
