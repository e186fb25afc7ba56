package leave

import (
	"testing"
	"time"

	"sirh/internal/domain/holidays"
)

func TestBusinessDaysSkipsWeekends(t *testing.T) {
	// Monday 2026-08-03 through Sunday 2026-08-09.
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	if got := BusinessDays(start, end, nil); got != 5 {
		t.Fatalf("expected 5 business days, got %d", got)
	}
}

func TestBusinessDaysSkipsHolidays(t *testing.T) {
	// 2026-08-07 is Ivorian independence day, a Friday.
	set := []holidays.PublicHoliday{{
		Name:      "Fête de l'Indépendance",
		Date:      time.Date(1960, 8, 7, 0, 0, 0, 0, time.UTC),
		Recurring: true,
	}}
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	if got := BusinessDays(start, end, set); got != 4 {
		t.Fatalf("expected 4 business days with holiday, got %d", got)
	}
}

func TestBusinessDaysInvertedRange(t *testing.T) {
	start := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	if got := BusinessDays(start, end, nil); got != 0 {
		t.Fatalf("expected 0 for inverted range, got %d", got)
	}
}
