package service

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/rs/zerolog/log"
)

// DatasetImporter stores a ledger dataset.
type DatasetImporter interface {
	Import(ctx context.Context, ds *ledger.Dataset) error
}

// LedgerService imports ledger files from a local directory or a Drive folder.
type LedgerService struct {
	importer    DatasetImporter
	fetcher     *drive.Fetcher
	downloadDir string
}

// NewLedgerService creates a ledger service. fetcher may be nil when Drive
// is not configured.
func NewLedgerService(importer DatasetImporter, fetcher *drive.Fetcher, downloadDir string) *LedgerService {
	return &LedgerService{
		importer:    importer,
		fetcher:     fetcher,
		downloadDir: downloadDir,
	}
}

// ImportDir loads and stores the ledger files in dir.
func (s *LedgerService) ImportDir(ctx context.Context, dir string) (*ledger.Dataset, error) {
	ds, err := ledger.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledgers from %s: %w", dir, err)
	}

	if err := s.importer.Import(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to import ledgers: %w", err)
	}
	return ds, nil
}

// ImportDrive downloads the ledger files of folderID and imports them.
func (s *LedgerService) ImportDrive(ctx context.Context, folderID string) (*ledger.Dataset, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("google drive is not configured")
	}
	if folderID == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}

	if s.downloadDir != "" {
		if err := os.MkdirAll(s.downloadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create download dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(s.downloadDir, "drive-")
	if err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	defer os.RemoveAll(dir)

	paths, err := s.fetcher.FetchLedgers(ctx, folderID, dir)
	if err != nil {
		return nil, err
	}
	log.Info().Str("folder_id", folderID).Int("files", len(paths)).Msg("ledger: drive files fetched")

	return s.ImportDir(ctx, dir)
}
