package employees

const (
	ContractCDI   = "CDI"
	ContractCDD   = "CDD"
	ContractCDDTI = "CDDTI"
	ContractStage = "STAGE"

	StatusActive     = "active"
	StatusSuspended  = "suspended"
	StatusTerminated = "terminated"

	ContractStatusActive = "active"
	ContractStatusClosed = "closed"

	// Labor code: a CDD must state its justification.
	MinCDDReasonLen = 10
)

var ContractTypes = []string{ContractCDI, ContractCDD, ContractCDDTI, ContractStage}

var Statuses = []string{StatusActive, StatusSuspended, StatusTerminated}
