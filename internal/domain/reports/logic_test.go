package reports

import (
	"strings"
	"testing"
	"time"

	"sirh/internal/domain/holidays"
	"sirh/internal/domain/payroll"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestClippedBusinessDays(t *testing.T) {
	// Report period: March 2026. The 2nd through the 6th is Mon-Fri.
	periodStart, periodEnd := day(2026, 3, 1), day(2026, 3, 31)

	// Fully inside the period.
	if got := clippedBusinessDays(day(2026, 3, 2), day(2026, 3, 6), periodStart, periodEnd, nil); got != 5 {
		t.Fatalf("expected 5 days inside the period, got %d", got)
	}

	// Spills into February: only the March portion counts.
	if got := clippedBusinessDays(day(2026, 2, 23), day(2026, 3, 6), periodStart, periodEnd, nil); got != 5 {
		t.Fatalf("expected 5 clipped days at the front, got %d", got)
	}

	// Spills into April: only through the 31st counts (30th, 31st are Mon-Tue).
	if got := clippedBusinessDays(day(2026, 3, 30), day(2026, 4, 10), periodStart, periodEnd, nil); got != 2 {
		t.Fatalf("expected 2 clipped days at the back, got %d", got)
	}

	// Entirely outside the period.
	if got := clippedBusinessDays(day(2026, 4, 1), day(2026, 4, 3), periodStart, periodEnd, nil); got != 0 {
		t.Fatalf("expected 0 days outside the period, got %d", got)
	}

	// A public holiday inside the span does not count as a leave day.
	hols := []holidays.PublicHoliday{{Date: day(2026, 3, 4), Name: "Jour férié"}}
	if got := clippedBusinessDays(day(2026, 3, 2), day(2026, 3, 6), periodStart, periodEnd, hols); got != 4 {
		t.Fatalf("expected 4 days with a holiday excluded, got %d", got)
	}
}

func TestPayrollRegisterCSV(t *testing.T) {
	slips := []payroll.Payslip{
		{
			EmployeeID: "emp-1", FirstName: "Awa", LastName: "Koné", ContractType: "CDI",
			DaysWorked: 30, Gross: 500000, CNPSEmployee: 31500, CMUEmployee: 500,
			ITS: 81000, Net: 387000,
		},
	}

	content, err := payrollRegisterCSV(slips)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "matricule,nom,") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "emp-1,Koné,Awa,CDI,30,500000,31500,500,81000,387000" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestPayrollRegisterCSVEmptyRun(t *testing.T) {
	content, err := payrollRegisterCSV(nil)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(content)), "\n"); len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}
