package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfczx/profilescraper/internal/api"
	"github.com/pfczx/profilescraper/internal/cache"
	"github.com/pfczx/profilescraper/internal/config"
	"github.com/pfczx/profilescraper/internal/notify"
	"github.com/pfczx/profilescraper/internal/scraper"
	"github.com/pfczx/profilescraper/internal/sheet"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the Telegram command listener",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return err
		}
		store, err := sheet.Open(filepath.Join(cfg.DataDir, "sheets.db"))
		if err != nil {
			return err
		}
		defer store.Close()
		mirror := sheet.NewMirror(store)

		notifier := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, "")
		s := scraper.New(cfg, notifier, cache.New(cfg.DataDir), mirror)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: api.NewServer(s, mirror, cfg.ProfileURL).Routes(),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if notifier.Enabled() {
			notifier.RegisterCommand("/scrape", func(ctx context.Context) error {
				runCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
				defer cancel()
				_, err := s.Scrape(runCtx, cfg.ProfileURL)
				return err
			})
			notifier.RegisterCommand("/status", func(ctx context.Context) error {
				rec, err := mirror.LoadProfile(ctx)
				if err != nil {
					return err
				}
				if rec.BasicInfo.Name == "" && !rec.HasContent() {
					return errors.New("no profile data stored yet")
				}
				return nil
			})
			go notifier.Listen(ctx)
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
