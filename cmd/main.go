// Package main runs the cash card API.
package main

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/cash-card/cmd/httpserver"
	"github.com/go-petr/cash-card/internal/middleware"
	"github.com/go-petr/cash-card/pkg/configpkg"
	"github.com/go-petr/cash-card/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	needsDB := config.StorageDriver == configpkg.StoragePostgres ||
		config.CredentialsSource == configpkg.CredentialsPostgres

	var db *sql.DB

	if needsDB {
		if config.MigrateOnStart {
			if err := dbpkg.Migrate(config.DBSource); err != nil {
				logger.Fatal().Err(err).Msg("cannot migrate database")
			}
		}

		db, err = dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}
		defer db.Close()
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().
		Str("address", config.ServerAddress).
		Str("storage", config.StorageDriver).
		Str("credentials", config.CredentialsSource).
		Msg("CASH CARD API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
