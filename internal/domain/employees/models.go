package employees

import "time"

type Employee struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	CNPSNumber  string    `json:"cnpsNumber"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	HireDate    time.Time `json:"hireDate"`
	Status      string    `json:"status"`
	BaseSalary  int64     `json:"baseSalary"`
	BankAccount string    `json:"bankAccount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Contract struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	ContractType string     `json:"contractType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	DailyRate    int64      `json:"dailyRate,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PayrollData is what the payroll engine needs per employee for a run.
type PayrollData struct {
	EmployeeID   string
	CNPSNumber   string
	FirstName    string
	LastName     string
	BaseSalary   int64
	ContractType string
	DailyRate    int64
}

type ExpiringContract struct {
	ContractID   string
	EmployeeID   string
	FirstName    string
	LastName     string
	ContractType string
	EndDate      time.Time
}
