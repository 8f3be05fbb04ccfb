package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/rs/zerolog/log"
)

// FileSource lists and downloads remote files.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

var _ FileSource = (*Service)(nil)

// Fetcher pulls ledger files out of a Drive folder.
type Fetcher struct {
	source FileSource
}

func NewFetcher(source FileSource) *Fetcher {
	return &Fetcher{source: source}
}

// FetchLedgers downloads every ledger file in folderID into dir and returns
// the local CSV paths.
//
//   - CSV files are downloaded directly.
//   - XLSX files are downloaded next to the target, the first sheet is
//     converted to CSV and the workbook is removed.
//
// Files that are not ledgers are ignored.
func (f *Fetcher) FetchLedgers(ctx context.Context, folderID, dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := f.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ledgerFile, ok := ledger.FileName(file.Name)
		if !ok {
			log.Debug().Str("file", file.Name).Msg("drive: ignoring non-ledger file")
			continue
		}

		csvPath := filepath.Join(dir, ledgerFile)
		if strings.EqualFold(filepath.Ext(file.Name), ".csv") {
			if err := f.download(ctx, file, csvPath); err != nil {
				return nil, err
			}
		} else {
			xlsxPath := strings.TrimSuffix(csvPath, ".csv") + ".xlsx"
			if err := f.download(ctx, file, xlsxPath); err != nil {
				return nil, err
			}
			if err := ConvertXLSXToCSV(xlsxPath, csvPath); err != nil {
				return nil, fmt.Errorf("failed to convert %s to csv: %w", file.Name, err)
			}
			_ = os.Remove(xlsxPath)
		}

		log.Info().Str("file", file.Name).Str("path", csvPath).Msg("drive: ledger downloaded")
		localPaths = append(localPaths, csvPath)
	}

	return localPaths, nil
}

func (f *Fetcher) download(ctx context.Context, file File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", path, err)
	}
	defer out.Close()

	if err := f.source.DownloadFile(ctx, file.ID, out); err != nil {
		return fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	return nil
}
