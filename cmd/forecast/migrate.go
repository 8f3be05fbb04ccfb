package main

import (
	"fmt"

	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	applied, err := postgres.RunMigrations(c.Context, db, c.String("migrations-dir"))
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Int("applied", len(applied)).Msg("migrations up to date")
	return nil
}
