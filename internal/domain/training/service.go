package training

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPlanNotFound = errors.New("training plan not found")
	ErrItemNotFound = errors.New("training item not found")
	ErrNotDraft     = errors.New("training plan is not editable")
	ErrInvalidInput = errors.New("invalid training input")
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) CreatePlan(ctx context.Context, tenantID string, year int, budget int64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_plans (tenant_id, plan_year, budget, status)
    VALUES ($1,$2,$3,$4) RETURNING id
  `, tenantID, year, budget, PlanStatusDraft).Scan(&id)
	return id, err
}

func (s *Service) GetPlan(ctx context.Context, tenantID, planID string) (Plan, error) {
	var plan Plan
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, p.plan_year, p.budget, p.status, p.created_at,
           COALESCE(SUM(i.cost) FILTER (WHERE i.status <> $3), 0),
           COALESCE(SUM(i.cost) FILTER (WHERE i.status = $4), 0)
    FROM training_plans p
    LEFT JOIN training_plan_items i ON i.plan_id = p.id
    WHERE p.tenant_id = $1 AND p.id = $2
    GROUP BY p.id
  `, tenantID, planID, ItemStatusCancelled, ItemStatusCompleted).Scan(
		&plan.ID, &plan.Year, &plan.Budget, &plan.Status, &plan.CreatedAt, &plan.Allocated, &plan.Spent)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrPlanNotFound
	}
	if err != nil {
		return Plan{}, err
	}
	applyBudget(&plan)
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, tenantID string) ([]Plan, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.plan_year, p.budget, p.status, p.created_at,
           COALESCE(SUM(i.cost) FILTER (WHERE i.status <> $2), 0),
           COALESCE(SUM(i.cost) FILTER (WHERE i.status = $3), 0)
    FROM training_plans p
    LEFT JOIN training_plan_items i ON i.plan_id = p.id
    WHERE p.tenant_id = $1
    GROUP BY p.id
    ORDER BY p.plan_year DESC
  `, tenantID, ItemStatusCancelled, ItemStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(&plan.ID, &plan.Year, &plan.Budget, &plan.Status, &plan.CreatedAt,
			&plan.Allocated, &plan.Spent); err != nil {
			return nil, err
		}
		applyBudget(&plan)
		out = append(out, plan)
	}
	return out, nil
}

func (s *Service) SetPlanStatus(ctx context.Context, tenantID, planID, status string) error {
	if status != PlanStatusDraft && status != PlanStatusApproved && status != PlanStatusClosed {
		return ErrInvalidInput
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_plans SET status = $1 WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, planID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// AddItem attaches a training action to a draft plan. Returns the refreshed
// plan so the caller can surface the budget warning.
func (s *Service) AddItem(ctx context.Context, tenantID string, item Item) (Plan, string, error) {
	if !validPriority(item.Priority) || !validQuarter(item.Quarter) || item.Cost < 0 {
		return Plan{}, "", ErrInvalidInput
	}
	plan, err := s.GetPlan(ctx, tenantID, item.PlanID)
	if err != nil {
		return Plan{}, "", err
	}
	if plan.Status != PlanStatusDraft {
		return Plan{}, "", ErrNotDraft
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO training_plan_items (tenant_id, plan_id, title, priority, quarter, cost, beneficiaries, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id
  `, tenantID, item.PlanID, item.Title, item.Priority, item.Quarter, item.Cost,
		item.Beneficiaries, ItemStatusPlanned).Scan(&id)
	if err != nil {
		return Plan{}, "", err
	}

	plan, err = s.GetPlan(ctx, tenantID, item.PlanID)
	return plan, id, err
}

func (s *Service) UpdateItem(ctx context.Context, tenantID string, item Item) (Plan, error) {
	if !validPriority(item.Priority) || !validQuarter(item.Quarter) || item.Cost < 0 {
		return Plan{}, ErrInvalidInput
	}
	plan, err := s.GetPlan(ctx, tenantID, item.PlanID)
	if err != nil {
		return Plan{}, err
	}
	if plan.Status != PlanStatusDraft {
		return Plan{}, ErrNotDraft
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE training_plan_items
    SET title = $1, priority = $2, quarter = $3, cost = $4, beneficiaries = $5
    WHERE tenant_id = $6 AND plan_id = $7 AND id = $8
  `, item.Title, item.Priority, item.Quarter, item.Cost, item.Beneficiaries,
		tenantID, item.PlanID, item.ID)
	if err != nil {
		return Plan{}, err
	}
	if tag.RowsAffected() == 0 {
		return Plan{}, ErrItemNotFound
	}
	return s.GetPlan(ctx, tenantID, item.PlanID)
}

func (s *Service) DeleteItem(ctx context.Context, tenantID, planID, itemID string) error {
	plan, err := s.GetPlan(ctx, tenantID, planID)
	if err != nil {
		return err
	}
	if plan.Status != PlanStatusDraft {
		return ErrNotDraft
	}
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM training_plan_items WHERE tenant_id = $1 AND plan_id = $2 AND id = $3
  `, tenantID, planID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CompleteItem marks the action delivered, counting its cost as spent. The
// plan no longer needs to be a draft.
func (s *Service) CompleteItem(ctx context.Context, tenantID, planID, itemID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_plan_items SET status = $1
    WHERE tenant_id = $2 AND plan_id = $3 AND id = $4 AND status = $5
  `, ItemStatusCompleted, tenantID, planID, itemID, ItemStatusPlanned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) ListItems(ctx context.Context, tenantID, planID string) ([]Item, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, plan_id, title, priority, quarter, cost, beneficiaries, status, created_at
    FROM training_plan_items
    WHERE tenant_id = $1 AND plan_id = $2
    ORDER BY quarter, priority, created_at
  `, tenantID, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.PlanID, &item.Title, &item.Priority, &item.Quarter,
			&item.Cost, &item.Beneficiaries, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
