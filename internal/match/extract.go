package match

import "time"

// Extract turns raw fixture rows into Match candidates, two per row (one
// per side). Rows outside the lookahead window or with an unparseable
// date are dropped silently — expected for far-future or malformed rows,
// not an error.
//
// The window is [today, today+lookaheadDays] inclusive, at day
// granularity in now's location.
func Extract(rows []RawRow, now time.Time, lookaheadDays int) []Match {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last := today.AddDate(0, 0, lookaheadDays)

	var matches []Match
	for _, row := range rows {
		day, err := time.ParseInLocation(DateLayout, row.Date, now.Location())
		if err != nil {
			continue
		}
		if day.Before(today) || day.After(last) {
			continue
		}

		// Both orientations: each tracked side gets its own row in its
		// own table. When both sides are tracked this is intentional
		// double coverage of a single fixture.
		matches = append(matches,
			fromRow(row.Home, row.Away, row),
			fromRow(row.Away, row.Home, row),
		)
	}
	return matches
}
