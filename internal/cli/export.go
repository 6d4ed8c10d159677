package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"expensetracker/internal/backend"
	"expensetracker/internal/core"
)

var (
	flagExportFrom       string
	flagExportTo         string
	flagExportCategories []string
	flagExportMin        string
	flagExportOut        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export expenses to a CSV file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFrom, "from", "", "Earliest date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&flagExportTo, "to", "", "Latest date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringSliceVarP(&flagExportCategories, "category", "c", nil, "Category to include (repeatable)")
	exportCmd.Flags().StringVar(&flagExportMin, "min", "", "Minimum amount to include, e.g. 10.00")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default expenses_YYYYMMDD.csv, - for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func exportFilter() (core.Filter, error) {
	var f core.Filter
	if flagExportFrom != "" {
		d, err := core.ParseDate(flagExportFrom)
		if err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
		f.From = d
	}
	if flagExportTo != "" {
		d, err := core.ParseDate(flagExportTo)
		if err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
		f.To = d
	}
	f.Categories = flagExportCategories
	if flagExportMin != "" {
		cents, err := core.ParseThresholdCents(flagExportMin)
		if err != nil {
			return f, fmt.Errorf("--min: %w", err)
		}
		f.MinCents = cents
	}
	return f, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	LoadEnvFile()
	logger := SetupLogger()
	cfg := LoadAndValidateConfig(logger)

	filter, err := exportFilter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := backend.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("set up backend: %w", err)
	}
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	all, err := result.Ledger.List(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	expenses := core.Apply(all, filter)

	out := flagExportOut
	if out == "" {
		out = core.ExportFilename(time.Now())
	}
	if out == "-" {
		if err := core.WriteCSV(os.Stdout, expenses); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer file.Close()

	if err := core.WriteCSV(file, expenses); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	logger.Info("Export complete", "file", out, "count", len(expenses))
	return nil
}
