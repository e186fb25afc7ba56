package performance

import "time"

const (
	StatusDraft      = "draft"
	StatusProposed   = "proposed"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	LevelCompany    = "company"
	LevelTeam       = "team"
	LevelIndividual = "individual"
)

const (
	TypeQuantitative = "quantitative"
	TypeQualitative  = "qualitative"
	TypeBehavioral   = "behavioral"
	TypeProject      = "project"
)

var Levels = []string{LevelCompany, LevelTeam, LevelIndividual}
var Types = []string{TypeQuantitative, TypeQualitative, TypeBehavioral, TypeProject}

type Objective struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Level        string     `json:"level"`
	Type         string     `json:"type"`
	Weight       int        `json:"weight"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	DueDate      time.Time  `json:"dueDate"`
	OwnerID      string     `json:"ownerId,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}
