package holidays

import "time"

// OccursOn reports whether the holiday falls on the given day. A recurring
// holiday matches on month and day in any year from its first occurrence.
func (h PublicHoliday) OccursOn(day time.Time) bool {
	if h.Recurring {
		return h.Date.Month() == day.Month() &&
			h.Date.Day() == day.Day() &&
			!day.Before(truncate(h.Date))
	}
	return sameDay(h.Date, day)
}

// MaterializeYear projects the holiday into a concrete date for the given
// year; ok is false when the holiday does not occur that year.
func (h PublicHoliday) MaterializeYear(year int) (time.Time, bool) {
	if h.Recurring {
		if year < h.Date.Year() {
			return time.Time{}, false
		}
		return time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC), true
	}
	if h.Date.Year() != year {
		return time.Time{}, false
	}
	return truncate(h.Date), true
}

// CountInRange counts distinct holiday dates within [from, to] for a set of
// holidays, honoring recurrence. Used by attendance and leave computations.
func CountInRange(set []PublicHoliday, from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	seen := map[string]bool{}
	for year := from.Year(); year <= to.Year(); year++ {
		for _, h := range set {
			day, ok := h.MaterializeYear(year)
			if !ok {
				continue
			}
			if day.Before(truncate(from)) || day.After(truncate(to)) {
				continue
			}
			seen[day.Format("2006-01-02")] = true
		}
	}
	return len(seen)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
