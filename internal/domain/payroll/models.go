package payroll

import "time"

type Run struct {
	ID            string     `json:"id"`
	PeriodStart   time.Time  `json:"periodStart"`
	PeriodEnd     time.Time  `json:"periodEnd"`
	PayDate       time.Time  `json:"payDate"`
	Status        string     `json:"status"`
	TotalGross    int64      `json:"totalGross"`
	TotalNet      int64      `json:"totalNet"`
	EmployerCost  int64      `json:"employerCost"`
	EmployeeCount int        `json:"employeeCount"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CalculatedAt  *time.Time `json:"calculatedAt,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type Payslip struct {
	ID           string    `json:"id"`
	RunID        string    `json:"runId"`
	EmployeeID   string    `json:"employeeId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ContractType string    `json:"contractType"`
	DaysWorked   int       `json:"daysWorked"`
	Gross        int64     `json:"gross"`
	CNPSEmployee int64     `json:"cnpsEmployee"`
	CNPSEmployer int64     `json:"cnpsEmployer"`
	CMUEmployee  int64     `json:"cmuEmployee"`
	CMUEmployer  int64     `json:"cmuEmployer"`
	ITS          int64     `json:"its"`
	Net          int64     `json:"net"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Breakdown is the statutory decomposition of one gross amount.
type Breakdown struct {
	Gross        int64
	CNPSEmployee int64
	CNPSEmployer int64
	CMUEmployee  int64
	CMUEmployer  int64
	ITS          int64
	Net          int64
	EmployerCost int64
}

func (b Breakdown) EmployeeDeductions() int64 {
	return b.CNPSEmployee + b.CMUEmployee + b.ITS
}

// MonthlyEmployeeSummary aggregates one employee's payslips across all the
// runs of a calendar month.
type MonthlyEmployeeSummary struct {
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ContractType   string `json:"contractType"`
	RunCount       int    `json:"runCount"`
	DaysWorked     int    `json:"daysWorked"`
	Gross          int64  `json:"gross"`
	Withheld       int64  `json:"withheld"`
	Recomputed     int64  `json:"recomputed"`
	Regularization int64  `json:"regularization"`
	Net            int64  `json:"net"`
	Regularized    bool   `json:"regularized"`
}

type MonthlySummary struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Employees  []MonthlyEmployeeSummary `json:"employees"`
	TotalGross int64                    `json:"totalGross"`
	TotalNet   int64                    `json:"totalNet"`
}

// slipLine is the per-run slice of a payslip used by monthly aggregation.
type slipLine struct {
	EmployeeID   string
	FirstName    string
	LastName     string
	ContractType string
	DaysWorked   int
	Gross        int64
	Withheld     int64
	Net          int64
}
