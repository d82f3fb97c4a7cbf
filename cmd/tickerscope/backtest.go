package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

var (
	backtestRange   rangeFlags
	backtestCapital float64
	backtestShort   int
	backtestLong    int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <ticker>",
	Short: "Run the moving-average crossover backtest",
	Long:  "Buy with all cash when the short average crosses above the long one and sell everything on the cross back",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestRange.register(backtestCmd)
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (default from config)")
	backtestCmd.Flags().IntVar(&backtestShort, "short", 0, "short moving average window (default from config)")
	backtestCmd.Flags().IntVar(&backtestLong, "long", 0, "long moving average window (default from config)")
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, log, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Sync()

	v := backtestRange.values(args[0])
	if cmd.Flags().Changed("capital") {
		v.Set("capital", strconv.FormatFloat(backtestCapital, 'f', -1, 64))
	}
	if cmd.Flags().Changed("short") {
		v.Set("short", strconv.Itoa(backtestShort))
	}
	if cmd.Flags().Changed("long") {
		v.Set("long", strconv.Itoa(backtestLong))
	}
	q, err := parseQuery(a, v)
	if err != nil {
		return err
	}

	report, err := a.Backtester().Run(cmd.Context(), q.Request(), q.Backtest)
	if err != nil {
		return err
	}

	p := q.Backtest
	bv := dashboard.NewBacktestView(fmt.Sprintf("MA%d vs MA%d crossover", p.ShortWindow, p.LongWindow), report)

	fmt.Println("=== TickerScope Backtest ===")
	fmt.Printf("Symbol:   %s\n", q.Symbol)
	fmt.Printf("Strategy: %s\n", bv.Title)
	if c := report.Result.Curve; len(c) > 0 {
		fmt.Printf("Period:   %s to %s\n", c[0].Time.Format(core.DateLayout), c[len(c)-1].Time.Format(core.DateLayout))
	}
	fmt.Println()

	for _, c := range bv.Cards {
		fmt.Printf("%-16s %s\n", c.Label, c.Value)
	}
	fmt.Printf("%-16s %d\n", "Trades", report.Summary.TradeCount)
	fmt.Printf("%-16s %s\n", "Win rate", dashboard.Percent(report.Summary.WinRate))

	for _, warn := range report.Warnings {
		fmt.Printf("warning: %s\n", warn)
	}

	if len(report.Result.Trades) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSIDE\tPRICE\tUNITS\tEQUITY")
	for _, t := range report.Result.Trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.Time.Format(core.DateLayout), t.Side, dashboard.Price(t.Price),
			dashboard.Amount(t.Units, 4), dashboard.Amount(t.Equity, 0))
	}
	return w.Flush()
}
