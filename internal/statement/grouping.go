package statement

import (
	"fmt"
	"slices"
	"time"

	"github.com/hqnguyen/remitd/internal/journal"
)

// GroupKey buckets a transaction timestamp into a statement period under the
// journal's grouping policy and returns the period key plus its first day.
// Timestamps are interpreted in the timezone they carry.
func GroupKey(j *journal.Journal, t time.Time) (string, time.Time) {
	y, m, d := t.Date()

	switch j.Grouping {
	case journal.GroupingWeek:
		isoYear, isoWeek := t.ISOWeek()
		// Walk back to Monday.
		start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		for start.Weekday() != time.Monday {
			start = start.AddDate(0, 0, -1)
		}

		return fmt.Sprintf("%d-W%02d", isoYear, isoWeek), start

	case journal.GroupingBimonthly:
		if d <= 15 {
			return fmt.Sprintf("%d-%02d-B1", y, m), time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
		}

		return fmt.Sprintf("%d-%02d-B2", y, m), time.Date(y, m, 16, 0, 0, 0, 0, t.Location())

	case journal.GroupingMonth:
		startDay := j.StartDay
		if startDay < 1 {
			startDay = 1
		}

		start := time.Date(y, m, startDay, 0, 0, 0, 0, t.Location())
		if d < startDay {
			start = start.AddDate(0, -1, 0)
		}

		return start.Format("2006-01-02"), start

	case journal.GroupingCustom:
		if len(j.CustomDays) == 0 {
			return t.Format("2006-01-02"), time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		}

		// Boundaries are configured by hand, in no guaranteed order.
		days := slices.Clone(j.CustomDays)
		slices.Sort(days)

		// Period opens on the largest configured day not after d; a day
		// before every boundary belongs to the previous month's last
		// period.
		startDay := 0

		for _, b := range days {
			if b <= d {
				startDay = b
			}
		}

		start := time.Date(y, m, startDay, 0, 0, 0, 0, t.Location())
		if startDay == 0 {
			start = time.Date(y, m, days[len(days)-1], 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
		}

		return start.Format("2006-01-02"), start

	default: // day
		start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())

		return start.Format("2006-01-02"), start
	}
}
