package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hyunseo-dev/lckbot/internal/match"
	"github.com/hyunseo-dev/lckbot/internal/store"
)

// fakeGateway is an in-memory store.Gateway for engine tests.
type fakeGateway struct {
	tables  map[string]map[string]store.Record // table -> match_id -> record
	failAll bool
	deletes []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{tables: make(map[string]map[string]store.Record)}
}

func (f *fakeGateway) put(table string, rec store.Record) {
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]store.Record)
	}
	f.tables[table][rec.MatchID] = rec
}

func (f *fakeGateway) Placeholders(_ context.Context, table string) ([]store.Record, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	var out []store.Record
	for _, rec := range f.tables[table] {
		if rec.Opponent == "TBD" || strings.Contains(rec.Opponent, "TBD") {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeGateway) ByDate(_ context.Context, table, date string) ([]store.Record, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	var out []store.Record
	for _, rec := range f.tables[table] {
		if rec.MatchDate == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeGateway) Upcoming(_ context.Context, table, fromDate string) ([]store.Record, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	var out []store.Record
	for _, rec := range f.tables[table] {
		if rec.MatchDate >= fromDate {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeGateway) Upsert(_ context.Context, table string, rec store.Record) error {
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.put(table, rec)
	return nil
}

func (f *fakeGateway) Delete(_ context.Context, table, matchID string) error {
	if f.failAll {
		return errors.New("store unavailable")
	}
	delete(f.tables[table], matchID)
	f.deletes = append(f.deletes, matchID)
	return nil
}

func (f *fakeGateway) Clear(_ context.Context, table string) error {
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.tables[table] = make(map[string]store.Record)
	return nil
}

func newEngine(gw store.Gateway) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(gw, time.UTC, logger)
}

func t1Match(opponent string) match.Match {
	base := match.BaseKey("2025-10-20", "17:00", "Worlds")
	return match.Match{
		Team:       "T1",
		TeamKo:     "티원",
		Table:      "t1_matches",
		Opponent:   opponent,
		Tournament: "Worlds",
		Date:       "2025-10-20",
		Time:       "17:00",
		ID:         match.ID("T1", base),
	}
}

func TestRunUpserts(t *testing.T) {
	gw := newFakeGateway()
	result := newEngine(gw).Run(context.Background(), []match.Match{t1Match("Gen.G")})

	if result.Found != 1 || result.Saved != 1 {
		t.Fatalf("expected found=1 saved=1, got %s", result.Summary())
	}
	rec, ok := gw.tables["t1_matches"]["T1-2025-10-20-17:00-Worlds"]
	if !ok {
		t.Fatal("record not stored under expected match_id")
	}
	if rec.Opponent != "Gen.G" || rec.League != "Worlds" {
		t.Errorf("stored record wrong: %+v", rec)
	}
}

func TestRunIdempotent(t *testing.T) {
	gw := newFakeGateway()
	engine := newEngine(gw)
	matches := []match.Match{t1Match("Gen.G")}

	engine.Run(context.Background(), matches)
	first := len(gw.tables["t1_matches"])
	engine.Run(context.Background(), matches)

	if got := len(gw.tables["t1_matches"]); got != first {
		t.Errorf("row count grew on identical second run: %d -> %d", first, got)
	}
}

// A stored TBD row must be gone after a run that carries the resolved
// fixture for the same slot, leaving exactly one row.
func TestRunResolvesPlaceholder(t *testing.T) {
	gw := newFakeGateway()
	engine := newEngine(gw)

	engine.Run(context.Background(), []match.Match{t1Match("TBD")})
	if len(gw.tables["t1_matches"]) != 1 {
		t.Fatalf("expected 1 row after TBD run, got %d", len(gw.tables["t1_matches"]))
	}

	result := engine.Run(context.Background(), []match.Match{t1Match("Gen.G")})

	rows := gw.tables["t1_matches"]
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row after resolution, got %d", len(rows))
	}
	for _, rec := range rows {
		if rec.Opponent != "Gen.G" {
			t.Errorf("surviving row has opponent %q, expected Gen.G", rec.Opponent)
		}
	}
	// Same match_id both runs, so resolution happens via upsert overwrite;
	// no separate ghost row may remain.
	if result.Saved != 1 {
		t.Errorf("expected saved=1, got %s", result.Summary())
	}
}

// A TBD row persisted under an older identifier scheme shares the base
// key substring but not the exact match_id. It must still be retired.
func TestRunDeletesLegacyPlaceholderRow(t *testing.T) {
	gw := newFakeGateway()
	gw.put("t1_matches", store.Record{
		MatchID:   "legacy-2025-10-20-17:00-Worlds-v1",
		MatchDate: "2025-10-20",
		Opponent:  "TBD",
	})

	result := newEngine(gw).Run(context.Background(), []match.Match{t1Match("Gen.G")})

	if result.Deleted != 1 {
		t.Fatalf("expected deleted=1, got %s", result.Summary())
	}
	if _, ok := gw.tables["t1_matches"]["legacy-2025-10-20-17:00-Worlds-v1"]; ok {
		t.Error("legacy TBD row should have been deleted")
	}
	if len(gw.tables["t1_matches"]) != 1 {
		t.Errorf("expected exactly 1 row, got %d", len(gw.tables["t1_matches"]))
	}
}

// A TBD row stays when the fresh scrape still reports TBD for its slot.
func TestRunKeepsUnresolvedPlaceholder(t *testing.T) {
	gw := newFakeGateway()
	gw.put("t1_matches", store.Record{
		MatchID:   "legacy-2025-10-20-17:00-Worlds",
		MatchDate: "2025-10-20",
		Opponent:  "TBD",
	})

	newEngine(gw).Run(context.Background(), []match.Match{t1Match("TBD")})

	if len(gw.deletes) != 0 {
		t.Errorf("no deletes expected while the slot is unresolved, got %v", gw.deletes)
	}
}

// A TBD row for a different slot survives a run that resolves another one.
func TestRunLeavesOtherSlots(t *testing.T) {
	gw := newFakeGateway()
	gw.put("t1_matches", store.Record{
		MatchID:   "T1-2025-10-22-19:00-Worlds",
		MatchDate: "2025-10-22",
		Opponent:  "TBD",
	})

	newEngine(gw).Run(context.Background(), []match.Match{t1Match("Gen.G")})

	if _, ok := gw.tables["t1_matches"]["T1-2025-10-22-19:00-Worlds"]; !ok {
		t.Error("TBD row for a different slot must not be deleted")
	}
}

func TestRunPartitionIsolation(t *testing.T) {
	gw := newFakeGateway()
	gw.put("geng_matches", store.Record{
		MatchID:   "Gen.G-2025-10-20-17:00-Worlds",
		MatchDate: "2025-10-20",
		Opponent:  "TBD",
	})

	newEngine(gw).Run(context.Background(), []match.Match{t1Match("FNC")})

	if len(gw.tables["geng_matches"]) != 1 {
		t.Error("a T1 match must not touch geng_matches")
	}
	if len(gw.deletes) != 0 {
		t.Errorf("unexpected cross-table deletes: %v", gw.deletes)
	}
}

func TestRunSkipsUntrackedTeams(t *testing.T) {
	gw := newFakeGateway()
	m := t1Match("T1")
	m.Team, m.TeamKo, m.Table = "FNC", "FNC", ""

	result := newEngine(gw).Run(context.Background(), []match.Match{m})

	if result.Saved != 0 {
		t.Errorf("untracked team must not be persisted, got %s", result.Summary())
	}
	for table, rows := range gw.tables {
		if len(rows) != 0 {
			t.Errorf("table %s mutated by untracked team: %d rows", table, len(rows))
		}
	}
}

func TestRunStoreOutage(t *testing.T) {
	gw := newFakeGateway()
	gw.failAll = true

	result := newEngine(gw).Run(context.Background(), []match.Match{
		t1Match("Gen.G"),
		t1Match("HLE"),
	})

	if result.Saved != 0 {
		t.Errorf("expected saved=0 during outage, got %d", result.Saved)
	}
	// One placeholder-lookup failure plus one upsert failure per record.
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 accumulated errors, got %d: %v", len(result.Errors), result.Errors)
	}
}
