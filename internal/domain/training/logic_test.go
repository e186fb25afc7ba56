package training

import "testing"

func TestApplyBudgetWithinEnvelope(t *testing.T) {
	plan := Plan{Budget: 5000000, Allocated: 4500000}
	applyBudget(&plan)
	if plan.OverBudget || plan.Overrun != 0 {
		t.Fatalf("expected no overrun, got %+v", plan)
	}
}

func TestApplyBudgetOverrunIsAdvisory(t *testing.T) {
	plan := Plan{Budget: 5000000, Allocated: 5600000}
	applyBudget(&plan)
	if !plan.OverBudget {
		t.Fatal("expected over-budget flag")
	}
	if plan.Overrun != 600000 {
		t.Fatalf("expected overrun 600000, got %d", plan.Overrun)
	}
}

func TestValidQuarter(t *testing.T) {
	for q := 1; q <= 4; q++ {
		if !validQuarter(q) {
			t.Fatalf("expected quarter %d to be valid", q)
		}
	}
	if validQuarter(0) || validQuarter(5) {
		t.Fatal("expected out-of-range quarters to be rejected")
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{PriorityLow, PriorityMedium, PriorityHigh} {
		if !validPriority(p) {
			t.Fatalf("expected priority %s to be valid", p)
		}
	}
	if validPriority("urgente") {
		t.Fatal("expected unknown priority to be rejected")
	}
}
