package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "profilescraper",
	Short: "LinkedIn profile scraper with browser automation",
	Long: `Scrapes a LinkedIn profile with an automated Chrome session,
extracts the structured sections, and persists them to a local JSON cache
and a worksheet store. Run once with "scrape" or keep it resident behind
an HTTP API with "serve".`,
}

// Execute runs the CLI.
func Execute() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
