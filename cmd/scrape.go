package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfczx/profilescraper/internal/cache"
	"github.com/pfczx/profilescraper/internal/config"
	"github.com/pfczx/profilescraper/internal/notify"
	"github.com/pfczx/profilescraper/internal/scraper"
	"github.com/pfczx/profilescraper/internal/sheet"
)

var (
	scrapeProfileURL string
	scrapeHeadless   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if scrapeProfileURL != "" {
			cfg.ProfileURL = scrapeProfileURL
		}
		if cmd.Flags().Changed("headless") {
			cfg.Headless = scrapeHeadless
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return err
		}
		store, err := sheet.Open(filepath.Join(cfg.DataDir, "sheets.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		notifier := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, "")
		s := scraper.New(cfg, notifier, cache.New(cfg.DataDir), sheet.NewMirror(store))

		rec, err := s.Scrape(context.Background(), cfg.ProfileURL)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if rec.IsFallback() {
			log.Printf("result is fallback data: %s", rec.ScrapeInfo)
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeProfileURL, "profile", "", "profile URL to scrape (default from env)")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", true, "run the browser headless")
	rootCmd.AddCommand(scrapeCmd)
}
