package payroll

import "testing"

func TestComputeMidRangeSalary(t *testing.T) {
	b := Compute(500000)

	if b.CNPSEmployee != 31500 {
		t.Fatalf("expected CNPS employee 31500, got %d", b.CNPSEmployee)
	}
	if b.CNPSEmployer != 38500 {
		t.Fatalf("expected CNPS employer 38500, got %d", b.CNPSEmployer)
	}
	if b.CMUEmployee != 500 || b.CMUEmployer != 500 {
		t.Fatalf("expected CMU 500/500, got %d/%d", b.CMUEmployee, b.CMUEmployer)
	}
	// 165000*16% + 260000*21% = 26400 + 54600
	if b.ITS != 81000 {
		t.Fatalf("expected ITS 81000, got %d", b.ITS)
	}
	if b.Net != 387000 {
		t.Fatalf("expected net 387000, got %d", b.Net)
	}
	if b.EmployerCost != 539000 {
		t.Fatalf("expected employer cost 539000, got %d", b.EmployerCost)
	}
}

func TestComputeBelowITSThreshold(t *testing.T) {
	b := Compute(60000)
	if b.ITS != 0 {
		t.Fatalf("expected no ITS under 75000, got %d", b.ITS)
	}
	if b.CNPSEmployee != 3780 {
		t.Fatalf("expected CNPS 3780, got %d", b.CNPSEmployee)
	}
	if b.Net != 55720 {
		t.Fatalf("expected net 55720, got %d", b.Net)
	}
}

func TestComputeCNPSCeiling(t *testing.T) {
	b := Compute(4000000)
	// Pension base capped at 45 x SMIG = 3375000.
	if b.CNPSEmployee != 212625 {
		t.Fatalf("expected capped CNPS employee 212625, got %d", b.CNPSEmployee)
	}
	if b.CNPSEmployer != 259875 {
		t.Fatalf("expected capped CNPS employer 259875, got %d", b.CNPSEmployer)
	}
	// 165000*16% + 560000*21% + 1600000*24% + 1600000*28%
	if b.ITS != 976000 {
		t.Fatalf("expected ITS 976000, got %d", b.ITS)
	}
	if b.Net != 2810875 {
		t.Fatalf("expected net 2810875, got %d", b.Net)
	}
}

func TestComputeTopBracket(t *testing.T) {
	b := Compute(10000000)
	// 26400 + 117600 + 384000 + 1568000 + 2000000*32%
	if b.ITS != 2736000 {
		t.Fatalf("expected ITS 2736000, got %d", b.ITS)
	}
}

func TestComputeZeroAndNegative(t *testing.T) {
	if b := Compute(0); b.Net != 0 || b.ITS != 0 {
		t.Fatalf("expected empty breakdown for zero gross, got %+v", b)
	}
	if b := Compute(-100); b != (Breakdown{}) {
		t.Fatalf("expected empty breakdown for negative gross, got %+v", b)
	}
}

func TestProratedGross(t *testing.T) {
	if got := ProratedGross(300000, 0); got != 300000 {
		t.Fatalf("expected untouched gross, got %d", got)
	}
	if got := ProratedGross(300000, 3); got != 270000 {
		t.Fatalf("expected 270000 for 3 unpaid days, got %d", got)
	}
	if got := ProratedGross(300000, 30); got != 0 {
		t.Fatalf("expected zero for full-month absence, got %d", got)
	}
}

func TestSeveranceBands(t *testing.T) {
	// 4 years at 30%.
	if got := Severance(300000, 4); got != 360000 {
		t.Fatalf("expected 360000, got %d", got)
	}
	// 5*30% + 3.5*35% = 2.725 months.
	if got := Severance(300000, 8.5); got != 817500 {
		t.Fatalf("expected 817500, got %d", got)
	}
	// 5*30% + 5*35% + 2*40% = 4.05 months.
	if got := Severance(300000, 12); got != 1215000 {
		t.Fatalf("expected 1215000, got %d", got)
	}
}

func TestSeveranceUnderOneYear(t *testing.T) {
	if got := Severance(300000, 0.9); got != 0 {
		t.Fatalf("expected no severance under one year, got %d", got)
	}
}

func TestRunTransitions(t *testing.T) {
	allowed := [][2]string{
		{RunStatusDraft, RunStatusCalculating},
		{RunStatusCalculating, RunStatusCalculated},
		{RunStatusCalculating, RunStatusFailed},
		{RunStatusCalculated, RunStatusApproved},
		{RunStatusApproved, RunStatusPaid},
		{RunStatusFailed, RunStatusCalculating},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{RunStatusDraft, RunStatusApproved},
		{RunStatusCalculated, RunStatusPaid},
		{RunStatusPaid, RunStatusDraft},
		{RunStatusApproved, RunStatusCalculating},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}
