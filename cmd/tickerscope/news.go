package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newthinker/tickerscope/internal/news"
)

var newsLimit int

var newsCmd = &cobra.Command{
	Use:   "news <query>",
	Short: "Search recent headlines",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNews,
}

func init() {
	newsCmd.Flags().IntVar(&newsLimit, "limit", 0, "maximum headlines (default from config)")
	rootCmd.AddCommand(newsCmd)
}

func runNews(cmd *cobra.Command, args []string) error {
	a, log, err := loadApp()
	if err != nil {
		return err
	}
	defer log.Sync()

	limit := a.Config().News.Limit
	if newsLimit > 0 {
		limit = newsLimit
	}

	query := strings.Join(args, " ")
	items := news.Top(a.News().Search(cmd.Context(), query), limit)
	if len(items) == 0 {
		fmt.Printf("No news for %q\n", query)
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s\n  %s  %s\n", item.Title, item.Published, item.Link)
	}
	return nil
}
