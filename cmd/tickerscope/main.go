package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/app"
	"github.com/newthinker/tickerscope/internal/config"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tickerscope",
	Short: "TickerScope - Taiwan stock dashboard",
	Long: `TickerScope charts Taiwan-listed stocks with moving averages, Bollinger
bands, volume profile and price gaps, runs a moving-average crossover
backtest and shows recent headlines.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadApp reads and validates the config, then builds the app and a logger
// the caller must Sync.
func loadApp() (*app.App, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logger.NewWithLevel(debug, level)
	if err != nil {
		return nil, nil, err
	}
	if cfgFile == "" {
		log.Debug("no config file specified, using defaults")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, log, nil
}

// rangeFlags are the history selection flags shared by the data commands.
type rangeFlags struct {
	period string
	start  string
	end    string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", "", "lookback period: 3mo 6mo 1y 2y 5y max")
	cmd.Flags().StringVar(&f.start, "start", "", "start date YYYY-MM-DD (switches to range mode)")
	cmd.Flags().StringVar(&f.end, "end", "", "inclusive end date YYYY-MM-DD (switches to range mode)")
}

func (f *rangeFlags) values(ticker string) url.Values {
	v := url.Values{}
	v.Set("ticker", ticker)
	if f.start != "" || f.end != "" {
		v.Set("mode", "range")
		if f.start != "" {
			v.Set("start", f.start)
		}
		if f.end != "" {
			v.Set("end", f.end)
		}
	} else if f.period != "" {
		v.Set("period", f.period)
	}
	return v
}

func parseQuery(a *app.App, v url.Values) (dashboard.Query, error) {
	return dashboard.ParseQuery(v, a.Dashboard().Defaults())
}
