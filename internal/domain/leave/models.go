package leave

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Type struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	IsPaid            bool      `json:"isPaid"`
	AnnualEntitlement int       `json:"annualEntitlement"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Request struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	TypeID     string     `json:"leaveTypeId"`
	TypeName   string     `json:"leaveTypeName"`
	IsPaid     bool       `json:"isPaid"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	Days       int        `json:"days"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	DecidedBy  string     `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time `json:"decidedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Balance is the remaining entitlement for one employee and leave type over
// a calendar year.
type Balance struct {
	TypeID      string `json:"leaveTypeId"`
	TypeName    string `json:"leaveTypeName"`
	Entitlement int    `json:"entitlement"`
	Taken       int    `json:"taken"`
	Remaining   int    `json:"remaining"`
}
