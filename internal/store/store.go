// Package store is the gateway to the per-team match tables. Everything
// above it talks to the Gateway interface so the reconciler and notifier
// are testable without Postgres.
package store

import (
	"context"
	"time"
)

// Record is one stored match row. One table per tracked team; match_id
// is the upsert conflict target.
type Record struct {
	MatchID       string
	MatchDate     string // YYYY-MM-DD
	MatchTime     string // HH:MM, may be empty
	MatchDatetime time.Time
	Opponent      string
	Tournament    string
	League        string
	UpdatedAt     time.Time
}

// Gateway is the storage surface the reconciler and notifier depend on.
type Gateway interface {
	// Placeholders returns rows whose opponent is still the TBD marker.
	Placeholders(ctx context.Context, table string) ([]Record, error)
	// ByDate returns rows for one calendar date, ordered by
	// match_datetime ascending.
	ByDate(ctx context.Context, table, date string) ([]Record, error)
	// Upcoming returns rows dated on or after fromDate, soonest first.
	Upcoming(ctx context.Context, table, fromDate string) ([]Record, error)
	// Upsert inserts or fully replaces a row keyed on match_id.
	// Last write wins on every field.
	Upsert(ctx context.Context, table string, rec Record) error
	// Delete removes one row by match_id.
	Delete(ctx context.Context, table, matchID string) error
	// Clear removes every row from a table. Administrative only.
	Clear(ctx context.Context, table string) error
}
