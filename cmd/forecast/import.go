package main

import (
	"fmt"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runImport(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	cfg := config.Load()

	folderID := c.String("drive-folder-id")

	var fetcher *drive.Fetcher
	if folderID != "" {
		driveSvc, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
		if err != nil {
			return fmt.Errorf("failed to create Drive service: %w", err)
		}
		fetcher = drive.NewFetcher(driveSvc)
	}

	svc := service.NewLedgerService(repository.NewIngestRepository(db.DB), fetcher, cfg.Drive.DownloadDir)

	var ds *ledger.Dataset
	if folderID != "" {
		log.Info().Str("folder_id", folderID).Msg("importing ledgers from Drive")
		ds, err = svc.ImportDrive(c.Context, folderID)
	} else {
		log.Info().Str("dir", c.String("dir")).Msg("importing ledgers from directory")
		ds, err = svc.ImportDir(c.Context, c.String("dir"))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "imported %d materials, %d products, %d BOM entries, %d outputs, %d transactions\n",
		len(ds.Materials), len(ds.Products), len(ds.BOM), len(ds.Outputs), len(ds.Transactions))
	return nil
}
