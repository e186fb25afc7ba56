package workflows

import "testing"

func TestMatchEquality(t *testing.T) {
	payload := map[string]any{"status": "terminated", "department": "Finance"}

	if !Match([]Condition{{Field: "status", Operator: "eq", Value: "terminated"}}, payload) {
		t.Fatal("expected eq to match")
	}
	if Match([]Condition{{Field: "status", Operator: "eq", Value: "active"}}, payload) {
		t.Fatal("expected eq mismatch")
	}
	if !Match([]Condition{{Field: "status", Operator: "neq", Value: "active"}}, payload) {
		t.Fatal("expected neq to match")
	}
}

func TestMatchNumericComparisons(t *testing.T) {
	// JSON payloads carry numbers as float64.
	payload := map[string]any{"daysUntilEnd": float64(15)}

	cases := []struct {
		op    string
		value any
		want  bool
	}{
		{"lt", float64(30), true},
		{"lte", float64(15), true},
		{"gt", float64(15), false},
		{"gte", "15", true},
		{"lt", "abc", false},
	}
	for _, tc := range cases {
		got := Match([]Condition{{Field: "daysUntilEnd", Operator: tc.op, Value: tc.value}}, payload)
		if got != tc.want {
			t.Fatalf("daysUntilEnd %s %v: expected %v, got %v", tc.op, tc.value, tc.want, got)
		}
	}
}

func TestMatchContains(t *testing.T) {
	payload := map[string]any{"position": "Responsable Paie"}
	if !Match([]Condition{{Field: "position", Operator: "contains", Value: "paie"}}, payload) {
		t.Fatal("expected case-insensitive contains to match")
	}
	if Match([]Condition{{Field: "position", Operator: "contains", Value: "comptable"}}, payload) {
		t.Fatal("expected contains mismatch")
	}
}

func TestMatchAllConditionsMustHold(t *testing.T) {
	payload := map[string]any{"status": "active", "contractType": "CDD"}
	conds := []Condition{
		{Field: "status", Operator: "eq", Value: "active"},
		{Field: "contractType", Operator: "eq", Value: "CDI"},
	}
	if Match(conds, payload) {
		t.Fatal("expected one failing condition to reject the rule")
	}
}

func TestMatchMissingFieldAndEmptyConditions(t *testing.T) {
	payload := map[string]any{"status": "active"}
	if Match([]Condition{{Field: "salary", Operator: "gt", Value: float64(0)}}, payload) {
		t.Fatal("expected missing field to fail the condition")
	}
	if !Match(nil, payload) {
		t.Fatal("expected empty condition list to match")
	}
}
