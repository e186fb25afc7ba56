package batch

import "time"

const (
	TypeSalaryUpdate       = "salary_update"
	TypeDocumentGeneration = "document_generation"
	TypeContractRenewal    = "contract_renewal"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

type RowError struct {
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
}

type Operation struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Params      map[string]any `json:"params"`
	EmployeeIDs []string       `json:"employeeIds"`
	Status      string         `json:"status"`
	Total       int            `json:"total"`
	Processed   int            `json:"processed"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	RowErrors   []RowError     `json:"rowErrors,omitempty"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func ValidType(opType string) bool {
	switch opType {
	case TypeSalaryUpdate, TypeDocumentGeneration, TypeContractRenewal:
		return true
	}
	return false
}
