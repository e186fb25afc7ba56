package payroll

import "testing"

func cddtiLine(days int, rate int64) slipLine {
	gross := rate * int64(days)
	b := Compute(gross)
	return slipLine{
		EmployeeID:   "emp-1",
		FirstName:    "Awa",
		LastName:     "Koné",
		ContractType: "CDDTI",
		DaysWorked:   days,
		Gross:        gross,
		Withheld:     b.EmployeeDeductions(),
		Net:          b.Net,
	}
}

func TestAggregateMonthCDDTIAtThreshold(t *testing.T) {
	// Two task runs totalling 22 days: assessed as a monthly salary.
	lines := []slipLine{cddtiLine(12, 20000), cddtiLine(10, 20000)}

	out := aggregateMonth(lines)
	if len(out) != 1 {
		t.Fatalf("expected one employee, got %d", len(out))
	}
	s := out[0]

	if s.RunCount != 2 || s.DaysWorked != 22 {
		t.Fatalf("unexpected run/day counts: %+v", s)
	}
	if !s.Regularized {
		t.Fatal("expected CDDTI regularization at 22 days")
	}
	if s.Gross != 440000 {
		t.Fatalf("expected gross 440000, got %d", s.Gross)
	}

	// Withheld per run: 42020 + 33100. Monthly reassessment: 96620.
	if s.Withheld != 75120 {
		t.Fatalf("expected withheld 75120, got %d", s.Withheld)
	}
	if s.Recomputed != 96620 {
		t.Fatalf("expected recomputed 96620, got %d", s.Recomputed)
	}
	if s.Regularization != 21500 {
		t.Fatalf("expected regularization 21500, got %d", s.Regularization)
	}
	if s.Net != 343380 {
		t.Fatalf("expected net 343380, got %d", s.Net)
	}
}

func TestAggregateMonthCDDTIBelowThreshold(t *testing.T) {
	lines := []slipLine{cddtiLine(8, 20000), cddtiLine(10, 20000)}

	out := aggregateMonth(lines)
	s := out[0]

	if s.Regularized {
		t.Fatal("expected no regularization below 21 days")
	}
	if s.Regularization != 0 {
		t.Fatalf("expected zero regularization, got %d", s.Regularization)
	}
	if s.Recomputed != s.Withheld {
		t.Fatalf("expected recomputed == withheld, got %d vs %d", s.Recomputed, s.Withheld)
	}
}

func TestAggregateMonthLeavesMonthlyEmployeesAlone(t *testing.T) {
	b := Compute(500000)
	lines := []slipLine{{
		EmployeeID:   "emp-2",
		FirstName:    "Yao",
		LastName:     "N'Guessan",
		ContractType: "CDI",
		DaysWorked:   30,
		Gross:        500000,
		Withheld:     b.EmployeeDeductions(),
		Net:          b.Net,
	}}

	out := aggregateMonth(lines)
	s := out[0]
	if s.Regularized || s.Regularization != 0 {
		t.Fatalf("CDI employee must not be regularized: %+v", s)
	}
	if s.Net != b.Net {
		t.Fatalf("expected net %d, got %d", b.Net, s.Net)
	}
}

func TestAggregateMonthSortsByName(t *testing.T) {
	lines := []slipLine{
		{EmployeeID: "b", FirstName: "B", LastName: "Zadi", ContractType: "CDI", Gross: 100000},
		{EmployeeID: "a", FirstName: "A", LastName: "Bamba", ContractType: "CDI", Gross: 100000},
	}
	out := aggregateMonth(lines)
	if out[0].LastName != "Bamba" || out[1].LastName != "Zadi" {
		t.Fatalf("expected name ordering, got %+v", out)
	}
}
