package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("workflow rule not found")
	ErrInvalidInput = errors.New("invalid workflow rule")
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func validateRule(rule Rule) error {
	valid := false
	for _, t := range EventTypes {
		if rule.Trigger == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidInput, rule.Trigger)
	}
	for _, cond := range rule.Conditions {
		switch cond.Operator {
		case "eq", "neq", "gt", "gte", "lt", "lte", "contains":
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidInput, cond.Operator)
		}
	}
	for _, action := range rule.Actions {
		switch action.Type {
		case ActionCreateAlert, ActionSendNotification, ActionCreatePayrollEvent, ActionUpdateEmployeeStatus:
		default:
			return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action.Type)
		}
	}
	if len(rule.Actions) == 0 {
		return fmt.Errorf("%w: a rule needs at least one action", ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, tenantID string, rule Rule) (string, error) {
	if err := validateRule(rule); err != nil {
		return "", err
	}
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return "", err
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO workflow_rules (tenant_id, name, trigger_event, conditions, actions, active)
    VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
  `, tenantID, rule.Name, rule.Trigger, conditions, actions, rule.Active).Scan(&id)
	return id, err
}

func (s *Service) Update(ctx context.Context, tenantID string, rule Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return err
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE workflow_rules
    SET name = $1, trigger_event = $2, conditions = $3, actions = $4, active = $5
    WHERE tenant_id = $6 AND id = $7
  `, rule.Name, rule.Trigger, conditions, actions, rule.Active, tenantID, rule.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, ruleID string) error {
	tag, err := s.DB.Exec(ctx,
		"DELETE FROM workflow_rules WHERE tenant_id = $1 AND id = $2", tenantID, ruleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, tenantID, ruleID string) (Rule, error) {
	rule, err := scanRule(s.DB.QueryRow(ctx, `
    SELECT id, name, trigger_event, conditions, actions, active, created_at
    FROM workflow_rules WHERE tenant_id = $1 AND id = $2
  `, tenantID, ruleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Rule{}, ErrNotFound
	}
	return rule, err
}

func (s *Service) List(ctx context.Context, tenantID string) ([]Rule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, trigger_event, conditions, actions, active, created_at
    FROM workflow_rules WHERE tenant_id = $1 ORDER BY created_at
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func (s *Service) ListExecutions(ctx context.Context, tenantID, ruleID string, limit, offset int) ([]Execution, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT x.id, x.rule_id, r.name, x.event_type, x.status, COALESCE(x.error, ''),
           x.actions_run, x.duration_ms, x.executed_at
    FROM workflow_executions x
    JOIN workflow_rules r ON r.id = x.rule_id
    WHERE x.tenant_id = $1 AND ($2 = '' OR x.rule_id::text = $2)
    ORDER BY x.executed_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, ruleID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		var x Execution
		if err := rows.Scan(&x.ID, &x.RuleID, &x.RuleName, &x.EventType, &x.Status, &x.Error,
			&x.ActionsRun, &x.DurationMS, &x.ExecutedAt); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// Stats aggregates execution outcomes per rule.
func (s *Service) Stats(ctx context.Context, tenantID string) ([]RuleStats, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.name,
           COUNT(x.id),
           COUNT(x.id) FILTER (WHERE x.status = $2),
           COUNT(x.id) FILTER (WHERE x.status = $3),
           MAX(x.executed_at)
    FROM workflow_rules r
    LEFT JOIN workflow_executions x ON x.rule_id = r.id
    WHERE r.tenant_id = $1
    GROUP BY r.id, r.name
    ORDER BY r.name
  `, tenantID, ExecutionSuccess, ExecutionFailed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleStats
	for rows.Next() {
		var st RuleStats
		if err := rows.Scan(&st.RuleID, &st.RuleName, &st.Total, &st.Successes, &st.Failures, &st.LastRunAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func scanRule(row pgx.Row) (Rule, error) {
	var rule Rule
	var conditions, actions []byte
	if err := row.Scan(&rule.ID, &rule.Name, &rule.Trigger, &conditions, &actions,
		&rule.Active, &rule.CreatedAt); err != nil {
		return Rule{}, err
	}
	if err := decodeJSON(conditions, &rule.Conditions); err != nil {
		return Rule{}, err
	}
	if err := decodeJSON(actions, &rule.Actions); err != nil {
		return Rule{}, err
	}
	return rule, nil
}
