package statement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hqnguyen/remitd/internal/journal"
	"github.com/hqnguyen/remitd/internal/statement"
)

func TestGroupKey(t *testing.T) {
	feb7 := time.Date(2022, 2, 7, 15, 21, 0, 0, time.UTC)
	feb17 := time.Date(2022, 2, 17, 19, 17, 0, 0, time.UTC)

	type testCase struct {
		name      string
		journal   *journal.Journal
		at        time.Time
		wantKey   string
		wantStart time.Time
	}

	tests := []testCase{
		{
			name:      "Day",
			journal:   &journal.Journal{Grouping: journal.GroupingDay},
			at:        feb7,
			wantKey:   "2022-02-07",
			wantStart: time.Date(2022, 2, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "WeekStartsMonday",
			journal:   &journal.Journal{Grouping: journal.GroupingWeek},
			at:        feb17, // Thursday of ISO week 7
			wantKey:   "2022-W07",
			wantStart: time.Date(2022, 2, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "BimonthlyFirstHalf",
			journal:   &journal.Journal{Grouping: journal.GroupingBimonthly},
			at:        feb7,
			wantKey:   "2022-02-B1",
			wantStart: time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "BimonthlySecondHalf",
			journal:   &journal.Journal{Grouping: journal.GroupingBimonthly},
			at:        feb17,
			wantKey:   "2022-02-B2",
			wantStart: time.Date(2022, 2, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "MonthAfterStartDay",
			journal:   &journal.Journal{Grouping: journal.GroupingMonth, StartDay: 10},
			at:        feb17,
			wantKey:   "2022-02-10",
			wantStart: time.Date(2022, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "MonthBeforeStartDayBelongsToPreviousPeriod",
			journal:   &journal.Journal{Grouping: journal.GroupingMonth, StartDay: 10},
			at:        feb7,
			wantKey:   "2022-01-10",
			wantStart: time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "CustomBoundaries",
			journal:   &journal.Journal{Grouping: journal.GroupingCustom, CustomDays: []int{1, 11, 21}},
			at:        feb17,
			wantKey:   "2022-02-11",
			wantStart: time.Date(2022, 2, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "CustomBeforeFirstBoundary",
			journal:   &journal.Journal{Grouping: journal.GroupingCustom, CustomDays: []int{5, 20}},
			at:        time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC),
			wantKey:   "2022-01-20",
			wantStart: time.Date(2022, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "CustomBoundariesConfiguredOutOfOrder",
			journal:   &journal.Journal{Grouping: journal.GroupingCustom, CustomDays: []int{21, 1, 11}},
			at:        feb17,
			wantKey:   "2022-02-11",
			wantStart: time.Date(2022, 2, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "CustomBeforeFirstBoundaryConfiguredOutOfOrder",
			journal:   &journal.Journal{Grouping: journal.GroupingCustom, CustomDays: []int{20, 5}},
			at:        time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC),
			wantKey:   "2022-01-20",
			wantStart: time.Date(2022, 1, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, start := statement.GroupKey(tt.journal, tt.at)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantStart, start)
		})
	}
}
