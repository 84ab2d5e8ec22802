// Package match holds the match model, the stable identifier derivation,
// and the extractor that turns raw scraped rows into Match candidates.
package match

import (
	"strings"
	"time"
	"unicode"

	"github.com/hyunseo-dev/lckbot/internal/team"
)

// Placeholder marks an opponent that the schedule has not resolved yet.
const Placeholder = "TBD"

// DateLayout is the calendar-date wire format used throughout.
const DateLayout = "2006-01-02"

// RawRow is one fixture as extracted from the schedule page, before any
// team resolution. Date is YYYY-MM-DD, Time is HH:MM (may be empty).
type RawRow struct {
	Home       string
	Away       string
	Date       string
	Time       string
	Tournament string
}

// Match is a candidate record produced from one side of a fixture.
// Never mutated after extraction.
type Match struct {
	Team       string // raw scraped name
	TeamKo     string // canonical display name
	Table      string // storage table; empty when the team is not tracked
	Opponent   string
	Tournament string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM, may be empty
	ID         string // stable identifier, independent of Opponent
}

// normalize replaces every whitespace character with "_" so identifiers
// stay stable under spacing variance from the source.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

// BaseKey derives the fixture-slot portion of a match identifier from
// date, time, and tournament only. Two sides of the same fixture share a
// base key; so do a TBD row and its later resolved form.
func BaseKey(date, clock, tournament string) string {
	return normalize(date + "-" + clock + "-" + tournament)
}

// ID derives the stable match identifier. The opponent is deliberately
// excluded so the identifier survives a TBD opponent resolving to a real
// team across scrapes.
func ID(teamName, baseKey string) string {
	return normalize(teamName + "-" + baseKey)
}

// IsPlaceholder reports whether an opponent value is the unresolved
// marker. The source sometimes decorates it ("TBD #1"), so a contains
// check is required.
func IsPlaceholder(opponent string) bool {
	return opponent == Placeholder || strings.Contains(opponent, Placeholder)
}

// Datetime combines the match date and clock time into an instant in loc.
// An empty or malformed clock falls back to midnight.
func (m Match) Datetime(loc *time.Location) time.Time {
	day, err := time.ParseInLocation(DateLayout, m.Date, loc)
	if err != nil {
		return time.Time{}
	}
	clock, err := time.Parse("15:04", m.Time)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
}

// fromRow builds the Match for one side of a fixture.
func fromRow(side, opponent string, row RawRow) Match {
	resolved := team.Resolve(side)
	base := BaseKey(row.Date, row.Time, row.Tournament)
	return Match{
		Team:       side,
		TeamKo:     resolved.Name,
		Table:      resolved.Table,
		Opponent:   opponent,
		Tournament: row.Tournament,
		Date:       row.Date,
		Time:       row.Time,
		ID:         ID(side, base),
	}
}
