package payroll

const (
	RunStatusDraft       = "draft"
	RunStatusCalculating = "calculating"
	RunStatusCalculated  = "calculated"
	RunStatusApproved    = "approved"
	RunStatusPaid        = "paid"
	RunStatusFailed      = "failed"

	// SMIG is the Ivorian guaranteed minimum monthly wage, in XOF.
	SMIG = 75000

	// CNPSCeiling caps the pension contribution base at 45 x SMIG.
	CNPSCeiling = 45 * SMIG

	// CMU is a flat monthly contribution, half employee half employer.
	CMUEmployeeShare = 500
	CMUEmployerShare = 500

	// CDDTIMonthlyDayThreshold is the worked-day count from which a
	// task-contract worker is assessed like a monthly salaried employee.
	CDDTIMonthlyDayThreshold = 21

	// DaysFullMonth is the payroll base for monthly employees.
	DaysFullMonth = 30
)

var runTransitions = map[string][]string{
	RunStatusDraft:       {RunStatusCalculating},
	RunStatusCalculating: {RunStatusCalculated, RunStatusFailed},
	RunStatusCalculated:  {RunStatusApproved},
	RunStatusApproved:    {RunStatusPaid},
	RunStatusFailed:      {RunStatusCalculating},
}

func CanTransition(from, to string) bool {
	for _, allowed := range runTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
