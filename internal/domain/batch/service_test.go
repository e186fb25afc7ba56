package batch

import (
	"testing"
	"time"
)

type stubRow struct {
	createdBy *string
}

func (r stubRow) Scan(dest ...any) error {
	*(dest[0].(*string)) = "op-1"
	*(dest[1].(*string)) = TypeSalaryUpdate
	*(dest[2].(*[]byte)) = []byte(`{"amount":1000}`)
	*(dest[3].(*[]byte)) = []byte(`["emp-1","emp-2"]`)
	*(dest[4].(*string)) = StatusCompleted
	*(dest[5].(*int)) = 2
	*(dest[6].(*int)) = 2
	*(dest[7].(*int)) = 2
	*(dest[8].(*int)) = 0
	*(dest[9].(**string)) = r.createdBy
	*(dest[10].(*time.Time)) = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return nil
}

func TestScanOperationNullCreatedBy(t *testing.T) {
	op, err := scanOperation(stubRow{})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if op.CreatedBy != "" {
		t.Fatalf("expected empty createdBy for a NULL column, got %q", op.CreatedBy)
	}
	if len(op.EmployeeIDs) != 2 || op.EmployeeIDs[0] != "emp-1" {
		t.Fatalf("unexpected employee ids: %+v", op.EmployeeIDs)
	}
	if op.Params["amount"] != float64(1000) {
		t.Fatalf("unexpected params: %+v", op.Params)
	}
}

func TestScanOperationCreatedBy(t *testing.T) {
	by := "user-1"
	op, err := scanOperation(stubRow{createdBy: &by})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if op.CreatedBy != "user-1" {
		t.Fatalf("expected user-1, got %q", op.CreatedBy)
	}
}
