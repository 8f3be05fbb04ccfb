package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
)

func TestForecastExportKey(t *testing.T) {
	asOf := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	if got := ForecastExportKey("material_forecasts", asOf); got != "material_forecasts/2024-01-11/material_forecasts.csv" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ForecastExportKey("", asOf); got != "2024-01-11/material_forecasts.csv" {
		t.Fatalf("unexpected key without prefix %q", got)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://localhost:9000", true, "localhost:9000", false},
		{"minio:9000", false, "minio:9000", false},
		{"//storage.example.com", true, "storage.example.com", true},
	}

	for _, tt := range tests {
		host, secure := normalizeEndpoint(tt.endpoint, tt.useSSL)
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Errorf("normalizeEndpoint(%q, %v) = %q, %v; want %q, %v", tt.endpoint, tt.useSSL, host, secure, tt.wantHost, tt.wantSecure)
		}
	}
}

func TestNewMinioClientValidation(t *testing.T) {
	tests := []config.StorageConfig{
		{},
		{Endpoint: "localhost:9000"},
		{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
	}
	for _, cfg := range tests {
		if _, err := NewMinioClient(context.Background(), cfg); err == nil {
			t.Errorf("expected an error for %+v", cfg)
		}
	}
}

func TestLocalClientRoundTrip(t *testing.T) {
	root := t.TempDir()
	client, err := New(context.Background(), config.StorageConfig{LocalDir: root})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	key := ForecastExportKey("exports", time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC))
	data := []byte("material_id,status\n1,in_stock\n")
	if err := client.UploadObject(ctx, key, data); err != nil {
		t.Fatalf("UploadObject: %v", err)
	}

	objects, err := client.ListObjects(ctx, path.Dir(key))
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objects) != 1 || objects[0].Key != key || objects[0].Size != int64(len(data)) {
		t.Fatalf("unexpected objects: %+v", objects)
	}

	dest := filepath.Join(t.TempDir(), "copy", "forecasts.csv")
	if err := client.DownloadObject(ctx, key, dest); err != nil {
		t.Fatalf("DownloadObject: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != string(data) {
		t.Fatalf("unexpected download %q (%v)", got, err)
	}

	empty, err := client.ListObjects(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no objects under a missing prefix, got %+v (%v)", empty, err)
	}
}
