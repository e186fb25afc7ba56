package documents

import "time"

const (
	TypeWorkCertificate = "work_certificate"
	TypeCNPSAttestation = "cnps_attestation"
	TypeFinalPayslip    = "final_payslip"
)

type Document struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CertificateData carries everything the work certificate and the CNPS
// attestation templates print.
type CertificateData struct {
	CompanyName string
	FirstName   string
	LastName    string
	Position    string
	Department  string
	CNPSNumber  string
	HireDate    time.Time
	EndDate     time.Time
}

// FinalPayslipData is the settlement printed on termination: the last
// salary breakdown plus the legal indemnities.
type FinalPayslipData struct {
	CompanyName  string
	FirstName    string
	LastName     string
	CNPSNumber   string
	EndDate      time.Time
	Gross        int64
	CNPSEmployee int64
	CMUEmployee  int64
	ITS          int64
	Severance    int64
	NoticePay    int64
	Net          int64
}
