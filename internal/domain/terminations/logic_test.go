package terminations

import "testing"

func TestSeveranceEligible(t *testing.T) {
	eligible := []string{ReasonLicenciement, ReasonFinContrat, ReasonRetraite}
	for _, reason := range eligible {
		if !SeveranceEligible(reason) {
			t.Fatalf("expected %s to open severance", reason)
		}
	}

	ineligible := []string{ReasonDemission, ReasonFauteLourde}
	for _, reason := range ineligible {
		if SeveranceEligible(reason) {
			t.Fatalf("expected %s to forfeit severance", reason)
		}
	}
}

func TestValidReason(t *testing.T) {
	for _, reason := range Reasons {
		if !ValidReason(reason) {
			t.Fatalf("expected %s to be valid", reason)
		}
	}
	if ValidReason("abandon") {
		t.Fatal("expected unknown reason to be rejected")
	}
}
