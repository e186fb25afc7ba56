package terminations

import "time"

const (
	ReasonDemission    = "demission"
	ReasonLicenciement = "licenciement"
	ReasonFinContrat   = "fin_contrat"
	ReasonRetraite     = "retraite"
	ReasonFauteLourde  = "faute_lourde"
)

var Reasons = []string{
	ReasonDemission, ReasonLicenciement, ReasonFinContrat, ReasonRetraite, ReasonFauteLourde,
}

type Termination struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	TerminationDate time.Time `json:"terminationDate"`
	Reason          string    `json:"reason"`
	NoticeDays      int       `json:"noticeDays"`
	YearsOfService  float64   `json:"yearsOfService"`
	Severance       int64     `json:"severance"`
	CreatedAt       time.Time `json:"createdAt"`

	WorkCertificateID string     `json:"workCertificateId,omitempty"`
	CNPSAttestationID string     `json:"cnpsAttestationId,omitempty"`
	FinalPayslipID    string     `json:"finalPayslipId,omitempty"`
	DocumentsAt       *time.Time `json:"documentsGeneratedAt,omitempty"`
}

type CreateInput struct {
	EmployeeID      string
	TerminationDate time.Time
	Reason          string
	NoticeDays      int
}
