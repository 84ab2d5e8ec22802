// Package reconcile merges freshly extracted matches into the per-team
// tables: retires stale TBD rows once the real fixture is known, then
// upserts every match keyed on its stable identifier.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hyunseo-dev/lckbot/internal/match"
	"github.com/hyunseo-dev/lckbot/internal/store"
	"github.com/hyunseo-dev/lckbot/internal/team"
)

// Engine reconciles extracted matches against stored state.
type Engine struct {
	store  store.Gateway
	loc    *time.Location
	logger *slog.Logger
}

// New creates an Engine. loc is the wall clock match_datetime is built in.
func New(gw store.Gateway, loc *time.Location, logger *slog.Logger) *Engine {
	return &Engine{store: gw, loc: loc, logger: logger}
}

// Result accumulates the outcome of one reconciliation run.
type Result struct {
	Found    int
	Saved    int
	Deleted  int
	Errors   []string
	Duration time.Duration
}

// Summary returns a one-line human-readable summary.
func (r Result) Summary() string {
	return fmt.Sprintf("found=%d saved=%d deleted=%d errors=%d",
		r.Found, r.Saved, r.Deleted, len(r.Errors))
}

// Run reconciles one scrape's worth of matches. Per-record store errors
// are logged and accumulated but never abort the run: a total store
// outage yields Saved == 0 with every record in Errors.
//
// For each affected table, TBD cleanup deletes are issued before any
// upsert, so a placeholder row is never observed alongside its resolved
// counterpart.
func (e *Engine) Run(ctx context.Context, matches []match.Match) Result {
	start := time.Now()
	result := Result{Found: len(matches)}

	byTable := make(map[string][]match.Match)
	for _, m := range matches {
		if m.Table == "" {
			e.logger.Info("Skipping untracked team", "team", m.TeamKo, "opponent", m.Opponent)
			continue
		}
		byTable[m.Table] = append(byTable[m.Table], m)
	}

	// Registry order keeps runs deterministic.
	for _, table := range team.Tables() {
		fresh, ok := byTable[table]
		if !ok {
			continue
		}
		e.cleanPlaceholders(ctx, table, fresh, &result)

		for _, m := range fresh {
			rec := store.Record{
				MatchID:       m.ID,
				MatchDate:     m.Date,
				MatchTime:     m.Time,
				MatchDatetime: m.Datetime(e.loc),
				Opponent:      m.Opponent,
				Tournament:    m.Tournament,
				League:        m.Tournament,
			}
			if err := e.store.Upsert(ctx, table, rec); err != nil {
				e.logger.Error("Upsert failed", "match_id", m.ID, "error", err)
				result.Errors = append(result.Errors, fmt.Sprintf("upsert %s: %v", m.ID, err))
				continue
			}
			e.logger.Info("Saved match",
				"table", table, "team", m.TeamKo, "opponent", m.Opponent,
				"date", m.Date, "time", m.Time)
			result.Saved++
		}
	}

	result.Duration = time.Since(start)
	return result
}

// cleanPlaceholders deletes stored TBD rows whose fixture slot now has a
// resolved opponent in the fresh matches for the same table.
//
// The slot comparison is "base key contained in the stored match_id"
// rather than exact equality: stored IDs are team-prefixed, and the
// substring check also survives identifier-formation changes across old
// scrapes. Collisions are confined to one team's table.
func (e *Engine) cleanPlaceholders(ctx context.Context, table string, fresh []match.Match, result *Result) {
	stale, err := e.store.Placeholders(ctx, table)
	if err != nil {
		e.logger.Error("Placeholder lookup failed", "table", table, "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("placeholders %s: %v", table, err))
		return
	}

	for _, rec := range stale {
		if !resolvedSlotExists(rec, fresh) {
			continue
		}
		if err := e.store.Delete(ctx, table, rec.MatchID); err != nil {
			e.logger.Error("Placeholder delete failed", "match_id", rec.MatchID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("delete %s: %v", rec.MatchID, err))
			continue
		}
		e.logger.Info("Cleaned up TBD entry", "table", table, "match_id", rec.MatchID)
		result.Deleted++
	}
}

func resolvedSlotExists(rec store.Record, fresh []match.Match) bool {
	for _, m := range fresh {
		if match.IsPlaceholder(m.Opponent) {
			continue
		}
		base := match.BaseKey(m.Date, m.Time, m.Tournament)
		if strings.Contains(rec.MatchID, base) {
			return true
		}
	}
	return false
}
