package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/memory"
	"github.com/urfave/cli/v2"
)

func runDemo(c *cli.Context) error {
	ds, err := ledger.LoadDir(c.String("dir"))
	if err != nil {
		return err
	}

	ledgers := memory.NewLedgerRepository()
	ledgers.Load(ds)

	p := forecast.NewForecastPipeline(forecastConfig(c), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    memory.NewForecastRepository(),
	})

	summary, err := p.Generate(c.Context, asOf(c))
	if err != nil {
		return err
	}

	return printSummary(c.App.Writer, summary)
}

func printSummary(out io.Writer, summary *forecast.Summary) error {
	fmt.Fprintf(out, "as of %s: average daily output %.2f over %d days, trend %s (slope %.4f)\n\n",
		summary.AsOf.Format("2006-01-02"), summary.AverageDailyOutput, summary.OutputDays,
		summary.TrendDirection, summary.TrendSlope)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATERIAL\tSTOCK\tDAILY USAGE\tDAYS LEFT\tPROJECTED\tSTATUS\tREORDER\tCONFIDENCE\tMETHOD")
	for _, f := range summary.Forecasts {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%d\t%.2f\t%s\t%t\t%d (%s)\t%s\n",
			f.MaterialID, f.MaterialName, f.CurrentStock, f.DailyUsage, f.DaysUntilStockout,
			f.ProjectedStock, f.Status.Label(), f.NeedsReorder, f.ConfidenceScore, f.ConfidenceLevel, f.ForecastMethod)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", summary.Message())
	for _, s := range summary.SkippedMaterials {
		fmt.Fprintf(out, "  skipped material %d: %s\n", s.MaterialID, s.Reason)
	}
	return nil
}
