package employees

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestValidateContractCDIRejectsEndDate(t *testing.T) {
	end := date(2027, 1, 1)
	issues := ValidateContract(ContractCDI, date(2026, 1, 1), &end, "")
	if len(issues) != 1 || issues[0].Field != "endDate" {
		t.Fatalf("expected endDate issue, got %+v", issues)
	}

	if issues := ValidateContract(ContractCDI, date(2026, 1, 1), nil, ""); len(issues) != 0 {
		t.Fatalf("unexpected issues for plain CDI: %+v", issues)
	}
}

func TestValidateContractFixedTermNeedsEndDate(t *testing.T) {
	for _, ctype := range []string{ContractCDD, ContractCDDTI, ContractStage} {
		issues := ValidateContract(ctype, date(2026, 1, 1), nil, "remplacement d'un salarié absent")
		found := false
		for _, issue := range issues {
			if issue.Field == "endDate" {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected endDate issue, got %+v", ctype, issues)
		}
	}
}

func TestValidateContractEndMustFollowStart(t *testing.T) {
	end := date(2026, 1, 1)
	issues := ValidateContract(ContractCDDTI, date(2026, 1, 1), &end, "")
	if len(issues) != 1 || issues[0].Field != "endDate" {
		t.Fatalf("expected endDate ordering issue, got %+v", issues)
	}
}

func TestValidateContractCDDReason(t *testing.T) {
	end := date(2026, 6, 30)
	issues := ValidateContract(ContractCDD, date(2026, 1, 1), &end, "court")
	if len(issues) != 1 || issues[0].Field != "reason" {
		t.Fatalf("expected reason issue, got %+v", issues)
	}

	issues = ValidateContract(ContractCDD, date(2026, 1, 1), &end, "surcroît temporaire d'activité")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestNormalizeContractType(t *testing.T) {
	if got := NormalizeContractType(" cddti "); got != ContractCDDTI {
		t.Fatalf("expected %s, got %q", ContractCDDTI, got)
	}
	if got := NormalizeContractType("Cdi"); got != ContractCDI {
		t.Fatalf("expected %s, got %q", ContractCDI, got)
	}
}

func TestValidateContractCaseInsensitive(t *testing.T) {
	// A lowercase cdd must hit the same invariants as CDD.
	issues := ValidateContract("cdd", date(2026, 1, 1), nil, "")
	upper := ValidateContract(ContractCDD, date(2026, 1, 1), nil, "")
	if len(issues) != len(upper) || len(issues) != 2 {
		t.Fatalf("expected endDate and reason issues for lowercase cdd, got %+v", issues)
	}
}

func TestRenewalEndDate(t *testing.T) {
	got := RenewalEndDate(date(2026, 3, 31), 6)
	if !got.Equal(date(2026, 10, 1)) {
		// AddDate normalizes 2026-09-31 to 2026-10-01.
		t.Fatalf("expected 2026-10-01, got %s", got.Format("2006-01-02"))
	}
}

func TestYearsOfService(t *testing.T) {
	years := YearsOfService(date(2020, 1, 15), date(2026, 1, 15))
	if years != 6 {
		t.Fatalf("expected 6 years, got %v", years)
	}

	years = YearsOfService(date(2020, 1, 15), date(2026, 7, 15))
	if years < 6.4 || years > 6.6 {
		t.Fatalf("expected ~6.5 years, got %v", years)
	}

	if YearsOfService(date(2026, 1, 1), date(2020, 1, 1)) != 0 {
		t.Fatal("expected zero years when reference precedes hire")
	}
}
