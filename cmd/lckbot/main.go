// Command lckbot scrapes the Naver LoL esports schedule into per-team
// tables and sends day-of-match Discord notifications.
//
// Usage:
//
//	lckbot scrape
//	lckbot notify
//	lckbot serve
//	lckbot clear --yes
//	lckbot parse --file debug.html
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hyunseo-dev/lckbot/internal/api"
	"github.com/hyunseo-dev/lckbot/internal/cache"
	"github.com/hyunseo-dev/lckbot/internal/config"
	"github.com/hyunseo-dev/lckbot/internal/db"
	"github.com/hyunseo-dev/lckbot/internal/match"
	"github.com/hyunseo-dev/lckbot/internal/notify"
	"github.com/hyunseo-dev/lckbot/internal/reconcile"
	"github.com/hyunseo-dev/lckbot/internal/scrape"
	"github.com/hyunseo-dev/lckbot/internal/store"
	"github.com/hyunseo-dev/lckbot/internal/team"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "lckbot",
		Short: "LoL esports schedule scraper and match notifier",
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(notifyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(clearCmd())
	root.AddCommand(parseCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the schedule page and reconcile matches into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				loc := mustLocation(cfg.Timezone)
				now := time.Now().In(loc)

				fetcher := scrape.NewFetcher(cfg.ScheduleURL, cfg.FetchTimeout, logger)
				logger.Info("Scraping schedule", "url", cfg.ScheduleURL)
				html, err := fetcher.Fetch(ctx)
				if err != nil {
					return err // fatal: page unreachable
				}

				rows, err := scrape.ParseSchedule(strings.NewReader(html), now)
				if err != nil {
					return err
				}
				matches := match.Extract(rows, now, cfg.LookaheadDays)
				logger.Info("Extracted matches", "rows", len(rows), "matches", len(matches))

				gw := store.NewPostgres(pool.Pool)
				if err := gw.EnsureSchema(ctx); err != nil {
					return err
				}

				engine := reconcile.New(gw, loc, logger)
				start := time.Now()
				result := engine.Run(ctx, matches)
				logger.Info("Scrape finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("reconcile error", "error", e)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// notify command
// --------------------------------------------------------------------------

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send Discord notifications for today's matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				loc := mustLocation(cfg.Timezone)
				today := time.Now().In(loc).Format(match.DateLayout)

				gw := store.NewPostgres(pool.Pool)
				sender := notify.NewDiscordSender(cfg.BotUsername)
				notifier := notify.New(gw, sender, cfg.Webhooks, loc, cfg.NotifyPause, logger)

				sent := notifier.Run(ctx, today)
				logger.Info("Notification run complete", "date", today, "sent", sent)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only matches API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				gw := store.NewPostgres(pool.Pool)
				appCache := cache.New(cfg.CacheEnabled)
				router := api.NewRouter(pool, gw, appCache, cfg)

				addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
				srv := &http.Server{
					Addr:         addr,
					Handler:      router,
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					logger.Info("Starting matches API", "addr", addr, "environment", cfg.Environment)
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errCh <- err
					}
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				logger.Info("Shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("Shutdown error", "error", err)
				}
				logger.Info("Server stopped")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// clear command
// --------------------------------------------------------------------------

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all rows from every team table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				gw := store.NewPostgres(pool.Pool)
				for _, table := range team.Tables() {
					if err := gw.Clear(ctx, table); err != nil {
						logger.Error("Clear failed", "table", table, "error", err)
						continue
					}
					logger.Info("Cleared table", "table", table)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the unconditional delete")
	return cmd
}

// --------------------------------------------------------------------------
// parse command (offline debugging against saved HTML)
// --------------------------------------------------------------------------

func parseCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved schedule HTML file and print extracted matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			now := time.Now()
			rows, err := scrape.ParseSchedule(f, now)
			if err != nil {
				return err
			}
			matches := match.Extract(rows, now, 7)

			fmt.Printf("Parsed %d rows, %d matches\n", len(rows), len(matches))
			for _, m := range matches {
				tracked := " "
				if m.Table != "" {
					tracked = "*"
				}
				fmt.Printf("%s %s %s  %s vs %s  [%s]  id=%s\n",
					tracked, m.Date, m.Time, m.TeamKo, m.Opponent, m.Tournament, m.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "debug.html", "Saved schedule HTML file")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown timezone, falling back to UTC", "timezone", name)
		return time.UTC
	}
	return loc
}
