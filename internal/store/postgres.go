package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyunseo-dev/lckbot/internal/team"
)

// Postgres implements Gateway over a pgx connection pool.
//
// Table names are interpolated into SQL directly. They only ever come
// from the closed team registry, never from user input.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres gateway.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates every team table that does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, table := range team.Tables() {
		_, err := p.pool.Exec(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id             bigserial PRIMARY KEY,
				match_id       text NOT NULL UNIQUE,
				match_date     date NOT NULL,
				match_time     text NOT NULL DEFAULT '',
				match_datetime timestamptz,
				opponent       text NOT NULL DEFAULT '',
				tournament     text NOT NULL DEFAULT '',
				league         text NOT NULL DEFAULT '',
				updated_at     timestamptz NOT NULL DEFAULT NOW()
			)`, table))
		if err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

const recordColumns = `match_id, match_date::text, COALESCE(match_time, ''),
	COALESCE(match_datetime, 'epoch'::timestamptz), COALESCE(opponent, ''),
	COALESCE(tournament, ''), COALESCE(league, ''), updated_at`

// Placeholders returns rows whose opponent equals or contains TBD.
func (p *Postgres) Placeholders(ctx context.Context, table string) ([]Record, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+recordColumns+`
		FROM %s
		WHERE opponent = 'TBD' OR opponent ILIKE '%%TBD%%'`, table))
	if err != nil {
		return nil, fmt.Errorf("select placeholders from %s: %w", table, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByDate returns rows for one calendar date, soonest first.
func (p *Postgres) ByDate(ctx context.Context, table, date string) ([]Record, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+recordColumns+`
		FROM %s
		WHERE match_date = $1::date
		ORDER BY match_datetime ASC`, table), date)
	if err != nil {
		return nil, fmt.Errorf("select %s by date: %w", table, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Upcoming returns rows dated on or after fromDate, soonest first.
func (p *Postgres) Upcoming(ctx context.Context, table, fromDate string) ([]Record, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+recordColumns+`
		FROM %s
		WHERE match_date >= $1::date
		ORDER BY match_datetime ASC`, table), fromDate)
	if err != nil {
		return nil, fmt.Errorf("select upcoming from %s: %w", table, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Upsert writes a row keyed on match_id; every field from the new scrape
// replaces the old one, which is how a TBD opponent gets overwritten once
// the match_id stays identical.
func (p *Postgres) Upsert(ctx context.Context, table string, rec Record) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			match_id, match_date, match_time, match_datetime,
			opponent, tournament, league, updated_at
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (match_id) DO UPDATE SET
			match_date = EXCLUDED.match_date,
			match_time = EXCLUDED.match_time,
			match_datetime = EXCLUDED.match_datetime,
			opponent = EXCLUDED.opponent,
			tournament = EXCLUDED.tournament,
			league = EXCLUDED.league,
			updated_at = NOW()`, table),
		rec.MatchID, rec.MatchDate, rec.MatchTime, rec.MatchDatetime,
		rec.Opponent, rec.Tournament, rec.League,
	)
	if err != nil {
		return fmt.Errorf("upsert %s into %s: %w", rec.MatchID, table, err)
	}
	return nil
}

// Delete removes one row by match_id.
func (p *Postgres) Delete(ctx context.Context, table, matchID string) error {
	_, err := p.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE match_id = $1", table), matchID)
	if err != nil {
		return fmt.Errorf("delete %s from %s: %w", matchID, table, err)
	}
	return nil
}

// Clear removes every row from a table.
func (p *Postgres) Clear(ctx context.Context, table string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgxRows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.MatchID, &r.MatchDate, &r.MatchTime, &r.MatchDatetime,
			&r.Opponent, &r.Tournament, &r.League, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
