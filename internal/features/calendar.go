package features

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/table"
)

// CalendarFeatures fills the date-derived fields for every row. Day-of-week
// is Monday=0 through Sunday=6; weeks are ISO weeks.
func (e *Engine) CalendarFeatures(ft *table.FeatureTable) {
	for i := range ft.Rows {
		r := &ft.Rows[i]
		d := r.Date

		r.DayOfWeek = mondayIndexed(d.Weekday())
		r.DayOfMonth = d.Day()
		_, r.WeekOfYear = d.ISOWeek()
		r.Month = int(d.Month())
		r.Quarter = (int(d.Month())-1)/3 + 1
		r.IsWeekend = r.DayOfWeek >= 5
		r.IsMonthStart = d.Day() == 1
		r.IsMonthEnd = d.AddDate(0, 0, 1).Day() == 1
	}
	ft.Features.Calendar = true
	log.Debug().Int("rows", ft.Len()).Msg("calendar features created")
}

func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
