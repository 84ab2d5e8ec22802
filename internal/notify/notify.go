// Package notify checks each team's table for matches on the current
// date and delivers one Discord message per match, paced to respect the
// webhook rate limit.
package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyunseo-dev/lckbot/internal/store"
	"github.com/hyunseo-dev/lckbot/internal/team"
)

// Notifier queries stored matches and fans messages out per team webhook.
type Notifier struct {
	store    store.Gateway
	sender   Sender
	webhooks map[string]string // table -> webhook URL; emptyURL = team disabled
	loc      *time.Location
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Notifier. pause is the minimum gap between deliveries.
func New(gw store.Gateway, sender Sender, webhooks map[string]string, loc *time.Location, pause time.Duration, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:    gw,
		sender:   sender,
		webhooks: webhooks,
		loc:      loc,
		limiter:  rate.NewLimiter(rate.Every(pause), 1),
		logger:   logger,
	}
}

// Run sends a notification for every stored match dated today
// (YYYY-MM-DD), one team table at a time, ordered by match_datetime.
// Per-message failures are logged and skipped; returns the number of
// successful deliveries.
func (n *Notifier) Run(ctx context.Context, today string) int {
	sent := 0

	for _, table := range team.Tables() {
		teamName := team.NameFor(table)
		webhookURL := n.webhooks[table]
		if webhookURL == "" {
			n.logger.Info("No webhook configured, skipping", "team", teamName)
			continue
		}

		matches, err := n.store.ByDate(ctx, table, today)
		if err != nil {
			n.logger.Error("Fetching today's matches failed", "table", table, "error", err)
			continue
		}
		if len(matches) == 0 {
			n.logger.Info("No matches today", "team", teamName)
			continue
		}
		n.logger.Info("Found matches for today", "team", teamName, "count", len(matches))

		for _, rec := range matches {
			if err := n.limiter.Wait(ctx); err != nil {
				n.logger.Error("Pacing interrupted", "error", err)
				return sent
			}

			msg := FormatMessage(teamName, rec, n.loc)
			if err := n.sender.Send(ctx, webhookURL, msg); err != nil {
				n.logger.Error("Notification failed",
					"team", teamName, "match_id", rec.MatchID, "error", err)
				continue
			}
			n.logger.Info("Notification sent", "team", teamName, "match_id", rec.MatchID)
			sent++
		}
	}

	return sent
}
