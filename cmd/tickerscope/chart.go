package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/indicator"
)

const topBins = 5

var (
	chartRange rangeFlags
	chartMA    string
	chartRows  int
	chartJSON  bool
)

var chartCmd = &cobra.Command{
	Use:   "chart [ticker]",
	Short: "Print the dashboard summary for a ticker",
	Long: `Build the same view the dashboard renders and print the snapshot,
the latest bars and the headlines. A bare four-digit code gets the .TW suffix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChart,
}

func init() {
	chartRange.register(chartCmd)
	chartCmd.Flags().StringVar(&chartMA, "ma", "", "comma separated moving average windows")
	chartCmd.Flags().IntVar(&chartRows, "rows", 10, "number of recent bars to print")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the full view as JSON")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	a, log, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Sync()

	ticker := ""
	if len(args) == 1 {
		ticker = args[0]
	}
	v := chartRange.values(ticker)
	if chartMA != "" {
		v.Set("ma", chartMA)
	}
	q, err := parseQuery(a, v)
	if err != nil {
		return err
	}

	view, err := a.Dashboard().Build(cmd.Context(), q)
	if err != nil {
		return err
	}

	if chartJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Printf("=== %s ===\n", q.Symbol)
	if view.Notice != "" {
		fmt.Println(view.Notice)
	}
	if f := view.Failure; f != nil {
		fmt.Printf("%s: %s\n", f.Notice, f.Detail)
		for _, h := range f.Hints {
			fmt.Printf("  - %s\n", h)
		}
		return fmt.Errorf("no data for %s", q.Symbol)
	}

	for _, c := range view.Snapshot.Cards {
		if c.Delta != "" {
			fmt.Printf("%-8s %s  %s\n", c.Label, c.Value, c.Delta)
		} else {
			fmt.Printf("%-8s %s\n", c.Label, c.Value)
		}
	}
	fmt.Println()

	printRows(view.Table, chartRows)

	if view.Chart != nil {
		printIndicators(view.Chart)
	}

	if len(view.News) > 0 {
		fmt.Println("\nNews:")
		for _, item := range view.News {
			fmt.Printf("  %s  %s\n", item.Published, item.Title)
		}
	}
	return nil
}

func printRows(rows []dashboard.Row, limit int) {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date, dashboard.Price(r.Open), dashboard.Price(r.High), dashboard.Price(r.Low),
			dashboard.Price(r.Close), dashboard.Volume(r.Volume))
	}
	w.Flush()
}

func printIndicators(c *dashboard.Chart) {
	fmt.Println()
	for _, o := range c.Overlays {
		fmt.Printf("%-8s %s\n", o.Name, latest(o.Values))
	}
	if b := c.Bollinger; b != nil {
		fmt.Printf("%-8s %s / %s / %s\n", "BB", latest(b.Lower), latest(b.Mid), latest(b.Upper))
	}

	if len(c.Gaps) > 0 {
		fmt.Printf("\n%d price gaps\n", len(c.Gaps))
		for _, g := range c.Gaps {
			fmt.Printf("  %-4s %s -> %s  %s - %s\n", g.Kind,
				g.From.Format(core.DateLayout), g.To.Format(core.DateLayout),
				dashboard.Price(g.Low), dashboard.Price(g.High))
		}
	}

	if len(c.Profile) > 0 {
		bins := append([]indicator.VolumeBin(nil), c.Profile...)
		sort.SliceStable(bins, func(i, j int) bool { return bins[i].Volume > bins[j].Volume })
		fmt.Println("\nTop volume by price:")
		for _, b := range bins[:min(topBins, len(bins))] {
			fmt.Printf("  %s - %s  %s\n", dashboard.Price(b.Low), dashboard.Price(b.High), dashboard.Volume(b.Volume))
		}
	}
}

// latest is the last defined value of s.
func latest(s indicator.Series) string {
	for i := len(s) - 1; i >= 0; i-- {
		if !math.IsNaN(s[i]) {
			return dashboard.Price(s[i])
		}
	}
	return "n/a"
}
