package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the S3-compatible operations forecast exports need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New returns the local filesystem store when cfg.LocalDir is set and an
// S3-compatible client otherwise.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	if cfg.LocalDir != "" {
		return NewLocalClient(cfg.LocalDir)
	}
	client, err := NewMinioClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return client, nil
}

// ForecastExportKey names the export of the forecasts of asOf.
func ForecastExportKey(prefix string, asOf time.Time) string {
	return path.Join(prefix, asOf.Format("2006-01-02"), "material_forecasts.csv")
}
