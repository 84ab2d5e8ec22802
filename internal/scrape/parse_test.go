package scrape

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	data, err := os.ReadFile("testdata/schedule.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	rows, err := ParseSchedule(strings.NewReader(string(data)), now)
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}

	// 2 rows on day one, 1 complete row on day two; the dateless card
	// and the row with a missing away team are dropped.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}

	first := rows[0]
	if first.Home != "T1" || first.Away != "Gen.G" {
		t.Errorf("first row teams = %q vs %q", first.Home, first.Away)
	}
	if first.Date != "2025-10-17" {
		t.Errorf("first row date = %q, expected 2025-10-17", first.Date)
	}
	if first.Time != "17:00" {
		t.Errorf("first row time = %q", first.Time)
	}
	if first.Tournament != "2025 월드 챔피언십" {
		t.Errorf("first row tournament = %q", first.Tournament)
	}

	// TBD opponents are collected, not skipped — they may resolve later.
	second := rows[1]
	if second.Home != "Hanwha Life Esports" || second.Away != "TBD" {
		t.Errorf("second row teams = %q vs %q", second.Home, second.Away)
	}

	third := rows[2]
	if third.Date != "2025-10-18" || third.Home != "kt 롤스터" {
		t.Errorf("third row = %+v", third)
	}
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		now  time.Time
		want string
		ok   bool
	}{
		{
			"same year",
			"10월 17일 (금)",
			time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
			"2025-10-17", true,
		},
		{
			"no spacing variant",
			"1월3일",
			time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			"2026-01-03", true,
		},
		{
			"year rollover in december",
			"1월 5일 (월)",
			time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC),
			"2026-01-05", true,
		},
		{
			"not a date",
			"일정 미정",
			time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
			"", false,
		},
		{
			"out of range day",
			"10월 99일",
			time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveDate(tt.text, tt.now)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveDate(%q) = (%q, %v), expected (%q, %v)",
					tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}
