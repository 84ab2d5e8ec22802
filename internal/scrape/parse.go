package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunseo-dev/lckbot/internal/match"
)

// Selectors for the Naver schedule page. The class suffixes are build
// hashes, so match on the stable prefix. One layout at a time — a page
// redesign breaks this parser and that is accepted.
const (
	cardSelector  = "[class*='card_item__']"
	dateSelector  = "[class*='card_date__']"
	rowSelector   = "li[class*='row_item__']"
	timeSelector  = "[class*='row_time__']"
	titleSelector = "[class*='row_title__']"
	homeSelector  = "[class*='row_home__'] [class*='row_name__']"
	awaySelector  = "[class*='row_away__'] [class*='row_name__']"
)

// koreanDate matches date headers like "10월 17일 (금)".
var koreanDate = regexp.MustCompile(`(\d+)월\s*(\d+)일`)

// ParseSchedule extracts raw fixture rows from the rendered schedule
// HTML. Cards with unreadable dates and rows with missing fields are
// skipped silently; the page routinely carries decorative cards.
func ParseSchedule(r io.Reader, now time.Time) ([]match.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse schedule HTML: %w", err)
	}

	var rows []match.RawRow
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		dateText := strings.TrimSpace(card.Find(dateSelector).First().Text())
		date, ok := resolveDate(dateText, now)
		if !ok {
			return
		}

		card.Find(rowSelector).Each(func(_ int, item *goquery.Selection) {
			clock := strings.TrimSpace(item.Find(timeSelector).First().Text())
			if clock == "" {
				return
			}
			home := strings.TrimSpace(item.Find(homeSelector).First().Text())
			away := strings.TrimSpace(item.Find(awaySelector).First().Text())
			if home == "" || away == "" {
				return
			}
			tournament := strings.TrimSpace(item.Find(titleSelector).First().Text())
			if tournament == "" {
				tournament = "Unknown"
			}

			rows = append(rows, match.RawRow{
				Home:       home,
				Away:       away,
				Date:       date,
				Time:       clock,
				Tournament: tournament,
			})
		})
	})

	return rows, nil
}

// resolveDate turns "10월 17일 (금)" into YYYY-MM-DD. The page omits the
// year, so it is taken from the run date, rolling into the next year when
// the month has wrapped (a December run seeing January fixtures).
func resolveDate(text string, now time.Time) (string, bool) {
	m := koreanDate.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	year := now.Year()
	if month < int(now.Month())-6 {
		year++
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
