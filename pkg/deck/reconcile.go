package deck

import (
	"time"

	"github.com/smith3v/dove-bot/pkg/prefs"
)

const dateLayout = "2006-01-02"

// LocalDate formats now as YYYY-MM-DD in a fixed UTC offset.
func LocalDate(now time.Time, offsetHours int) string {
	zone := time.FixedZone("", offsetHours*60*60)
	return now.In(zone).Format(dateLayout)
}

// LocalTime returns now in a fixed UTC offset.
func LocalTime(now time.Time, offsetHours int) time.Time {
	return now.In(time.FixedZone("", offsetHours*60*60))
}

// Reconcile resets the daily fields of record when they belong to a day
// other than today. The returned patch is nil when nothing changed.
func Reconcile(record prefs.Record, today string) (prefs.Record, prefs.Patch) {
	if record.TodayLikesDate == today {
		return record, nil
	}
	record.TodayLikes = []int{}
	record.TodayLikesDate = today
	record.CelebrationShownDate = ""
	return record, rolloverPatch(today)
}

func rolloverPatch(today string) prefs.Patch {
	return prefs.Patch{
		prefs.KeyTodayLikesDate: today,
		prefs.KeyTodayLikes:     []int{},
	}
}
