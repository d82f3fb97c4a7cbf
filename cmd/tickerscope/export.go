package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newthinker/tickerscope/internal/dashboard"
)

var (
	exportRange  rangeFlags
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export <ticker>",
	Short: "Export daily bars as CSV",
	Long:  "Write the bars as a timestamped CSV snapshot to the configured sink, or to stdout with --stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportRange.register(exportCmd)
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "write the CSV to stdout instead of the sink")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, log, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Sync()

	q, err := parseQuery(a, exportRange.values(args[0]))
	if err != nil {
		return err
	}

	bars, err := a.History().FetchHistory(cmd.Context(), q.Request())
	if err != nil {
		return err
	}
	rows := dashboard.NewTable(bars)

	if exportStdout {
		return dashboard.WriteCSV(os.Stdout, rows)
	}

	exporter, err := a.Exporter()
	if err != nil {
		return err
	}
	path, err := exporter.Export(cmd.Context(), q.Symbol, rows)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d rows to %s\n", len(rows), path)
	return nil
}
