package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/budgetflow/backend/internal/config"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setup loads the configuration, configures logging and connects to the
// database. The schema is migrated on every connection.
func setup(configFile string) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}

	gin.SetMode(cfg.GinMode)
	setupLogging(cfg.LogFormat)

	if cfg.Postgres() {
		log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("using PostgreSQL")
		return cfg, models.ConnectPostgres(cfg.DSN())
	}

	err = os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		return config.Config{}, fmt.Errorf("could not create data directory: %w", err)
	}

	log.Info().Str("file", cfg.DSN()).Msg("using SQLite")
	return cfg, models.Connect(cfg.DSN())
}

// setupLogging defaults to human readable output for development and JSON
// for release. An explicit format wins.
func setupLogging(format string) {
	output := io.Writer(os.Stdout)
	if (format == "" && gin.IsDebugging()) || format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
