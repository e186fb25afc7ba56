package payroll

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBuildCNPSWorkbook(t *testing.T) {
	lines := []cnpsExportRow{
		{CNPSNumber: "CI123456", LastName: "Bamba", FirstName: "Awa", DaysWorked: 30,
			Gross: 500000, PensionBase: 500000, CNPSEmployee: 31500, CNPSEmployer: 38500, CMU: 1000},
		{CNPSNumber: "CI654321", LastName: "Zadi", FirstName: "Yao", DaysWorked: 30,
			Gross: 4000000, PensionBase: 3375000, CNPSEmployee: 212625, CNPSEmployer: 259875, CMU: 1000},
	}

	content, err := buildCNPSWorkbook(2026, 7, lines)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Déclaration CNPS"
	name, err := f.GetCellValue(sheet, "B4")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if name != "Bamba" {
		t.Fatalf("expected first row Bamba, got %q", name)
	}

	base, err := f.GetCellValue(sheet, "F5")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if base != "3375000" {
		t.Fatalf("expected capped pension base, got %q", base)
	}

	total, err := f.GetCellValue(sheet, "J7")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	// 31500+38500+1000 + 212625+259875+1000
	if total != "544500" {
		t.Fatalf("expected grand total 544500, got %q", total)
	}
}
