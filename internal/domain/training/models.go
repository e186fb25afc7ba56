package training

import "time"

const (
	PlanStatusDraft    = "draft"
	PlanStatusApproved = "approved"
	PlanStatusClosed   = "closed"
)

const (
	PriorityLow    = "basse"
	PriorityMedium = "moyenne"
	PriorityHigh   = "haute"
)

const (
	ItemStatusPlanned   = "planned"
	ItemStatusCompleted = "completed"
	ItemStatusCancelled = "cancelled"
)

type Plan struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Budget    int64     `json:"budget"`
	Status    string    `json:"status"`
	Allocated int64     `json:"allocated"`
	Spent     int64     `json:"spent"`
	CreatedAt time.Time `json:"createdAt"`

	// OverBudget is advisory: allocation beyond the envelope is allowed.
	OverBudget bool  `json:"overBudget"`
	Overrun    int64 `json:"overrun,omitempty"`
}

type Item struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"planId"`
	Title         string    `json:"title"`
	Priority      string    `json:"priority"`
	Quarter       int       `json:"quarter"`
	Cost          int64     `json:"cost"`
	Beneficiaries int       `json:"beneficiaries"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
