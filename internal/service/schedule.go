package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"
)

// ScheduleRuns starts a forecast batch on every tick of spec, as of the tick
// date. A tick that overlaps a running batch is skipped. Stop the returned
// scheduler on shutdown.
func (s *ForecastService) ScheduleRuns(ctx context.Context, spec string) (*cron.Cron, error) {
	if _, err := cron.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid forecast schedule %q: %w", spec, err)
	}

	c := cron.New()
	err := c.AddFunc(spec, func() {
		run, summary, err := s.Run(ctx, time.Now().UTC())
		switch {
		case errors.Is(err, ErrRunInProgress):
			log.Warn().Msg("forecast: scheduled run skipped, previous run still in progress")
		case err != nil:
			log.Error().Err(err).Msg("forecast: scheduled run failed")
		default:
			log.Info().Str("run_id", run.ID).Int("generated", summary.Generated).Msg("forecast: scheduled run completed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("schedule", spec).Msg("forecast: scheduled runs enabled")
	return c, nil
}
