package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/furnicast/backend-go/internal/types"
	"github.com/andresuchdata/furnicast/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newAsOfFlag() *cli.TimestampFlag {
	return &cli.TimestampFlag{
		Name:   "as-of",
		Usage:  "Forecast date (YYYY-MM-DD), defaults to today",
		Layout: "2006-01-02",
	}
}

func forecastFlags() []cli.Flag {
	return []cli.Flag{
		newAsOfFlag(),
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Number of materials forecast concurrently",
			EnvVars: []string{"FORECAST_WORKERS"},
		},
		&cli.BoolFlag{
			Name:  "no-trend",
			Usage: "Use the plain average daily output instead of the trend adjusted one",
		},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, types.DBKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(types.DBKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(types.DBKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

// asOf returns the --as-of flag or today.
func asOf(c *cli.Context) time.Time {
	if ts := c.Timestamp("as-of"); ts != nil {
		return *ts
	}
	return time.Now().UTC()
}

// forecastConfig applies command line overrides to the configured tunables.
func forecastConfig(c *cli.Context) forecast.Config {
	cfg := forecast.NewConfig(config.Load().Forecast)
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.Bool("no-trend") {
		cfg.TrendAdjust = false
	}
	return cfg
}

func main() {
	cfg := config.Load()
	logger.SetService("furnicast-forecast")
	logger.SetLevel(cfg.Server.LogLevel)

	app := &cli.App{
		Name:  "forecast",
		Usage: "Import material ledgers and run the material forecast batch",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply pending SQL migrations",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "migrations-dir",
						Usage:   "Directory containing SQL migrations",
						Value:   "./scripts/migrations",
						EnvVars: []string{"MIGRATIONS_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "import",
				Usage: "Import ledger CSV/XLSX files from a directory or a Google Drive folder",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory containing ledger CSV files",
						Value:   "./data/ledgers",
						EnvVars: []string{"LEDGER_DIR"},
					},
					&cli.StringFlag{
						Name:    "drive-folder-id",
						Usage:   "Google Drive folder ID to import from instead of --dir",
						EnvVars: []string{"LEDGER_DRIVE_FOLDER_ID"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImport,
			},
			{
				Name:   "run",
				Usage:  "Generate forecasts for every material",
				Flags:  append(forecastFlags(), newDBURLFlag()),
				Before: initDB,
				After:  closeDB,
				Action: runForecast,
			},
			{
				Name:  "export",
				Usage: "Write the active forecasts as CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file, - for stdout",
						Value: "-",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload the export to object storage",
					},
					newAsOfFlag(),
				},
				Before: initDB,
				After:  closeDB,
				Action: runExport,
			},
			exportsCommand(),
			{
				Name:  "demo",
				Usage: "Forecast a ledger directory in memory and print the result",
				Flags: append(forecastFlags(), &cli.StringFlag{
					Name:  "dir",
					Usage: "Directory containing ledger CSV files",
					Value: "./data/sample",
				}),
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("forecast command failed")
	}
}
