package main

import (
	"fmt"

	"github.com/andresuchdata/furnicast/backend-go/internal/cache"
	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runForecast(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	// Cached summaries are stale after a run; a missing Redis is not fatal here
	summaryCache, err := cache.NewForecastCache(config.Load().Cache)
	if err != nil {
		log.Warn().Err(err).Msg("summary cache unavailable, skipping invalidation")
		summaryCache = cache.NewNoopForecastCache()
	}

	ledgers := postgres.NewLedgerRepository(db)
	forecasts := postgres.NewForecastRepository(db)
	p := forecast.NewForecastPipeline(forecastConfig(c), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    forecasts,
	})

	svc := service.NewForecastService(forecasts, p, pipeline.NewRepository(db.DB.DB), summaryCache)
	run, summary, err := svc.Run(c.Context, asOf(c))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "run %s: %s\n", run.ID, summary.Message())
	for _, s := range summary.SkippedMaterials {
		fmt.Fprintf(c.App.Writer, "  skipped material %d: %s\n", s.MaterialID, s.Reason)
	}
	return nil
}
