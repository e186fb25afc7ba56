package documents

import (
	"bytes"
	"testing"
	"time"
)

func TestWorkCertificateRendersPDF(t *testing.T) {
	content, err := WorkCertificate(CertificateData{
		CompanyName: "Ivoire Agro SA",
		FirstName:   "Awa",
		LastName:    "Koné",
		Position:    "Comptable",
		Department:  "Finance",
		HireDate:    time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("expected a PDF header")
	}
}

func TestFinalPayslipRendersPDF(t *testing.T) {
	content, err := FinalPayslip(FinalPayslipData{
		CompanyName:  "Ivoire Agro SA",
		FirstName:    "Yao",
		LastName:     "N'Guessan",
		CNPSNumber:   "CI123456",
		EndDate:      time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Gross:        500000,
		CNPSEmployee: 31500,
		CMUEmployee:  500,
		ITS:          81000,
		Severance:    360000,
		Net:          747000,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("expected a PDF header")
	}
	if len(content) < 500 {
		t.Fatalf("suspiciously small document: %d bytes", len(content))
	}
}

func TestFrDate(t *testing.T) {
	got := frDate(time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC))
	if got != "7 août 2026" {
		t.Fatalf("unexpected date rendering: %q", got)
	}
}
