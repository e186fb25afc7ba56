package leave

import (
	"time"

	"sirh/internal/domain/holidays"
)

// BusinessDays counts the working days in [start, end]: weekends and public
// holidays are skipped.
func BusinessDays(start, end time.Time, publicHolidays []holidays.PublicHoliday) int {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}

	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		holiday := false
		for _, h := range publicHolidays {
			if h.OccursOn(day) {
				holiday = true
				break
			}
		}
		if !holiday {
			count++
		}
	}
	return count
}
