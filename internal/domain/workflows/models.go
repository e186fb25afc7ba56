package workflows

import "time"

const (
	EventEmployeeHired        = "employee.hired"
	EventEmployeeStatusChange = "employee.status_changed"
	EventContractExpiring     = "contract.expiring"
	EventPayrollRunCalculated = "payroll.run_calculated"
)

var EventTypes = []string{
	EventEmployeeHired, EventEmployeeStatusChange, EventContractExpiring, EventPayrollRunCalculated,
}

const (
	ActionCreateAlert          = "create_alert"
	ActionSendNotification     = "send_notification"
	ActionCreatePayrollEvent   = "create_payroll_event"
	ActionUpdateEmployeeStatus = "update_employee_status"
)

const (
	ExecutionSuccess = "success"
	ExecutionFailed  = "failed"
)

type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type Action struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

type Rule struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Trigger    string      `json:"trigger"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
	Active     bool        `json:"active"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Event is what handlers and schedulers dispatch into the runner. The
// payload is what conditions evaluate against.
type Event struct {
	TenantID string
	Type     string
	Payload  map[string]any
}

type Execution struct {
	ID         string    `json:"id"`
	RuleID     string    `json:"ruleId"`
	RuleName   string    `json:"ruleName"`
	EventType  string    `json:"eventType"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	ActionsRun int       `json:"actionsRun"`
	DurationMS int64     `json:"durationMs"`
	ExecutedAt time.Time `json:"executedAt"`
}

type RuleStats struct {
	RuleID    string     `json:"ruleId"`
	RuleName  string     `json:"ruleName"`
	Total     int        `json:"total"`
	Successes int        `json:"successes"`
	Failures  int        `json:"failures"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
}
