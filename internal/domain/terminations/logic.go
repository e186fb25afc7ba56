package terminations

// SeveranceEligible reports whether the termination reason opens the legal
// indemnity. Resignation and gross misconduct do not.
func SeveranceEligible(reason string) bool {
	switch reason {
	case ReasonLicenciement, ReasonFinContrat, ReasonRetraite:
		return true
	}
	return false
}

func ValidReason(reason string) bool {
	for _, r := range Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
