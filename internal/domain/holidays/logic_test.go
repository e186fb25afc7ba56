package holidays

import (
	"testing"
	"time"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestOccursOnRecurring(t *testing.T) {
	fete := PublicHoliday{CountryCode: "CI", Date: day(2020, 8, 7), Name: "Fête nationale", Recurring: true}

	if !fete.OccursOn(day(2026, 8, 7)) {
		t.Fatal("expected recurring holiday to match later year")
	}
	if fete.OccursOn(day(2026, 8, 8)) {
		t.Fatal("expected no match on a different day")
	}
	if fete.OccursOn(day(2019, 8, 7)) {
		t.Fatal("expected no match before first occurrence")
	}
}

func TestOccursOnOneOff(t *testing.T) {
	tabaski := PublicHoliday{CountryCode: "CI", Date: day(2026, 5, 27), Name: "Tabaski", Recurring: false}

	if !tabaski.OccursOn(day(2026, 5, 27)) {
		t.Fatal("expected match on exact date")
	}
	if tabaski.OccursOn(day(2027, 5, 27)) {
		t.Fatal("one-off holiday must not recur")
	}
}

func TestMaterializeYear(t *testing.T) {
	fete := PublicHoliday{Date: day(2020, 8, 7), Recurring: true}
	got, ok := fete.MaterializeYear(2026)
	if !ok || !got.Equal(day(2026, 8, 7)) {
		t.Fatalf("expected 2026-08-07, got %v ok=%v", got, ok)
	}

	if _, ok := fete.MaterializeYear(2019); ok {
		t.Fatal("expected no occurrence before first year")
	}
}

func TestCountInRange(t *testing.T) {
	set := []PublicHoliday{
		{Date: day(2020, 1, 1), Name: "Jour de l'an", Recurring: true},
		{Date: day(2020, 8, 7), Name: "Fête nationale", Recurring: true},
		{Date: day(2026, 5, 27), Name: "Tabaski", Recurring: false},
	}

	got := CountInRange(set, day(2026, 1, 1), day(2026, 12, 31))
	if got != 3 {
		t.Fatalf("expected 3 holidays in 2026, got %d", got)
	}

	got = CountInRange(set, day(2026, 5, 1), day(2026, 5, 31))
	if got != 1 {
		t.Fatalf("expected 1 holiday in May 2026, got %d", got)
	}

	// Range spanning a year boundary counts both new-year occurrences.
	got = CountInRange(set, day(2026, 12, 15), day(2027, 1, 15))
	if got != 1 {
		t.Fatalf("expected 1 holiday across boundary, got %d", got)
	}
}
