package notify

import (
	"fmt"
	"time"

	"github.com/hyunseo-dev/lckbot/internal/store"
)

// FormatMessage renders the day-of-match notification in Korean. The
// match time is always displayed in loc (Asia/Seoul in production)
// regardless of the host timezone; minutes are omitted when exactly zero.
func FormatMessage(teamName string, rec store.Record, loc *time.Location) string {
	t := rec.MatchDatetime.In(loc)
	hour, minute := t.Hour(), t.Minute()

	period := "오전"
	if hour >= 12 {
		period = "오후"
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	timeStr := fmt.Sprintf("%s %d시", period, displayHour)
	if minute != 0 {
		timeStr = fmt.Sprintf("%s %d분", timeStr, minute)
	}

	return fmt.Sprintf("오늘 %s %s VS %s %s 경기가 있습니다.",
		timeStr, teamName, rec.Opponent, rec.Tournament)
}
