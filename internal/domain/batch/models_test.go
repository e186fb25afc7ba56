package batch

import "testing"

func TestValidType(t *testing.T) {
	for _, opType := range []string{TypeSalaryUpdate, TypeDocumentGeneration, TypeContractRenewal} {
		if !ValidType(opType) {
			t.Fatalf("expected %s to be valid", opType)
		}
	}
	if ValidType("mass_termination") {
		t.Fatal("expected unknown type to be rejected")
	}
}
