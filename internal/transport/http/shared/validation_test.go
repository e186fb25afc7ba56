package shared

import (
	"testing"
	"time"
)

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "is required")
	v.Enum("status", "bogus", []string{"draft", "approved"}, "must be draft or approved")
	v.MinLen("reason", "short", 10, "must be at least 10 characters")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	if len(v.Issues()) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(v.Issues()))
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected issues for inverted date order")
	}

	v = NewValidator()
	v.DateOrder("startDate", end, "endDate", start)
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
}

func TestValidatorEnumIgnoresEmpty(t *testing.T) {
	v := NewValidator()
	v.Enum("priority", "", []string{"basse", "moyenne", "haute"}, "invalid priority")
	if v.HasIssues() {
		t.Fatal("empty value should not be an enum violation")
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2026-05-01"); err != nil {
		t.Fatalf("plain date failed: %v", err)
	}
	if _, err := ParseDate("2026-05-01T10:00:00Z"); err != nil {
		t.Fatalf("RFC3339 failed: %v", err)
	}
	if _, err := ParseDate("01/05/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFilePayloadEncodesBase64(t *testing.T) {
	payload := NewFilePayload("registre.csv", "text/csv", []byte("a,b\n1,2\n"))
	if payload.Size != 8 {
		t.Fatalf("expected size 8, got %d", payload.Size)
	}
	if payload.Content != "YSxiCjEsMgo=" {
		t.Fatalf("unexpected base64 content: %q", payload.Content)
	}
}
