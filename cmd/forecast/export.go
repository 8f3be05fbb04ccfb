package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/furnicast/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runExport(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	items, _, err := postgres.NewForecastRepository(db).ListActive(c.Context, domain.ForecastFilter{})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := forecast.WriteCSV(&buf, items); err != nil {
		return err
	}

	if err := writeOutput(c, buf.Bytes()); err != nil {
		return err
	}

	if c.Bool("upload") {
		cfg := config.Load().Storage
		store, err := storage.New(c.Context, cfg)
		if err != nil {
			return err
		}
		key := storage.ForecastExportKey(cfg.ExportPrefix, asOf(c))
		if err := store.UploadObject(c.Context, key, buf.Bytes()); err != nil {
			return err
		}
		log.Info().Str("key", key).Int("forecasts", len(items)).Msg("forecast export uploaded")
	}

	return nil
}

func writeOutput(c *cli.Context, data []byte) error {
	var w io.Writer = c.App.Writer
	if out := c.String("out"); out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	_, err := w.Write(data)
	return err
}
