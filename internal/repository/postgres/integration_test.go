package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *postgres.DB {
	_ = godotenv.Load("../../../.env")

	// Use a dedicated TEST database; every table is truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := postgres.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if _, err := postgres.RunMigrations(ctx, db, "../../../scripts/migrations"); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	_, err = db.ExecContext(ctx, `
		TRUNCATE TABLE material_forecasts, inventory_transactions, production_outputs,
			bom_entries, products, materials, pipeline_runs RESTART IDENTITY
	`)
	if err != nil {
		t.Fatalf("failed to clean test database: %v", err)
	}

	return db
}

func TestForecastRepository_ReplaceActive(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewForecastRepository(db)
	ctx := context.Background()

	asOf := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	base := domain.MaterialForecast{
		MaterialID:          7,
		MaterialName:        "Oak Plank",
		CurrentStock:        500,
		DailyUsage:          10,
		ForecastedUsage:     300,
		DaysUntilStockout:   50,
		ProjectedStock:      200,
		Status:              domain.StatusLowStock,
		NeedsReorder:        true,
		ConfidenceScore:     90,
		ConfidenceLevel:     domain.ConfidenceHigh,
		ForecastMethod:      domain.MethodHistoricalTransactions,
		TrendDirection:      domain.TrendStable,
		ForecastDays:        30,
		ForecastPeriodStart: asOf,
		ForecastPeriodEnd:   asOf.AddDate(0, 0, 30),
		ForecastDate:        asOf,
	}

	for i := 0; i < 3; i++ {
		f := base
		f.CurrentStock = float64(500 + i)
		if _, err := repo.ReplaceActive(ctx, f); err != nil {
			t.Fatalf("ReplaceActive #%d: %v", i, err)
		}
	}

	active, total, err := repo.ListActive(ctx, domain.ForecastFilter{MaterialIDs: []int64{7}})
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if total != 1 || len(active) != 1 {
		t.Fatalf("expected one active forecast, got %d", total)
	}
	if active[0].CurrentStock != 502 || active[0].Status != domain.StatusLowStock {
		t.Errorf("unexpected active forecast: %+v", active[0])
	}

	history, err := repo.History(ctx, 7, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history rows, got %d", len(history))
	}

	if _, err := repo.GetActive(ctx, 8); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	summary, err := repo.StatusSummary(ctx, domain.ForecastFilter{})
	if err != nil {
		t.Fatalf("StatusSummary: %v", err)
	}
	if summary.Total != 1 || summary.NeedsReorder != 1 || summary.LastForecast == nil {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestImportAndForecastEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ds, err := ledger.LoadDir("../../ledger/testdata/workshop")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if err := repository.NewIngestRepository(db.DB).Import(ctx, ds); err != nil {
		t.Fatalf("Import: %v", err)
	}
	// Importing twice must not duplicate ledger rows.
	if err := repository.NewIngestRepository(db.DB).Import(ctx, ds); err != nil {
		t.Fatalf("second Import: %v", err)
	}

	ledgers := postgres.NewLedgerRepository(db)
	outputs, err := ledgers.ListDailyOutput(ctx)
	if err != nil {
		t.Fatalf("ListDailyOutput: %v", err)
	}
	if len(outputs) != len(ds.Outputs) {
		t.Fatalf("expected %d outputs after re-import, got %d", len(ds.Outputs), len(outputs))
	}

	p := forecast.NewForecastPipeline(forecast.DefaultConfig(), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    postgres.NewForecastRepository(db),
	})

	runs := pipeline.NewRepository(db.DB.DB)
	run, report, err := pipeline.NewOrchestrator(runs).Run(ctx, p, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Oak and varnish resolve through product 10; the hinge's only BOM row is inactive.
	counts := report.Counts()
	if counts.Generated != 2 || counts.Skipped != 1 || counts.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	stored, err := runs.GetPipelineRun(ctx, run.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetPipelineRun: %v", err)
	}
	if stored.Status != pipeline.StatusCompleted || stored.Generated != 2 || stored.Message != report.Message() {
		t.Errorf("unexpected stored run: %+v", stored)
	}
}
