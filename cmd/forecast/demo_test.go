package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/memory"
)

func TestPrintSummary(t *testing.T) {
	ds, err := ledger.LoadDir("../../data/sample")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	ledgers := memory.NewLedgerRepository()
	ledgers.Load(ds)

	p := forecast.NewForecastPipeline(forecast.DefaultConfig(), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    memory.NewForecastRepository(),
	})
	summary, err := p.Generate(context.Background(), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var out bytes.Buffer
	if err := printSummary(&out, summary); err != nil {
		t.Fatalf("printSummary: %v", err)
	}

	text := out.String()
	for _, want := range []string{"as of 2024-03-15", "MATERIAL", "Oak Plank", summary.Message()} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q:\n%s", want, text)
		}
	}
}
