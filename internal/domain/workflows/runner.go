package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/platform/email"
)

// Runner matches incoming events against the tenant's active rules and
// executes their actions. Handlers dispatch events after mutations; the
// contract scanner dispatches on a schedule.
type Runner struct {
	DB     *pgxpool.Pool
	Mailer email.Mailer
	From   string
	Logger *slog.Logger
}

func NewRunner(db *pgxpool.Pool, mailer email.Mailer, from string, logger *slog.Logger) *Runner {
	return &Runner{DB: db, Mailer: mailer, From: from, Logger: logger}
}

// Dispatch runs every matching rule. Rule failures are recorded, never
// propagated: automation must not break the mutation that triggered it.
func (r *Runner) Dispatch(ctx context.Context, event Event) {
	rules, err := r.activeRules(ctx, event.TenantID, event.Type)
	if err != nil {
		r.Logger.Error("workflow rule lookup failed", "event", event.Type, "error", err)
		return
	}

	for _, rule := range rules {
		if !Match(rule.Conditions, event.Payload) {
			continue
		}
		r.execute(ctx, rule, event)
	}
}

func (r *Runner) execute(ctx context.Context, rule Rule, event Event) {
	started := time.Now()
	actionsRun := 0
	var execErr error

	for _, action := range rule.Actions {
		if err := r.runAction(ctx, event, action); err != nil {
			execErr = fmt.Errorf("action %s: %w", action.Type, err)
			break
		}
		actionsRun++
	}

	status := ExecutionSuccess
	errText := ""
	if execErr != nil {
		status = ExecutionFailed
		errText = execErr.Error()
		r.Logger.Error("workflow rule failed",
			"rule", rule.Name, "event", event.Type, "error", execErr)
	} else {
		r.Logger.Info("workflow rule executed",
			"rule", rule.Name, "event", event.Type, "actions", actionsRun)
	}

	_, err := r.DB.Exec(ctx, `
    INSERT INTO workflow_executions (tenant_id, rule_id, event_type, status, error, actions_run, duration_ms)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7)
  `, event.TenantID, rule.ID, event.Type, status, errText, actionsRun,
		time.Since(started).Milliseconds())
	if err != nil {
		r.Logger.Error("workflow execution not recorded", "rule", rule.Name, "error", err)
	}
}

func (r *Runner) runAction(ctx context.Context, event Event, action Action) error {
	switch action.Type {
	case ActionCreateAlert:
		return r.createAlert(ctx, event, action.Params)
	case ActionSendNotification:
		return r.sendNotification(ctx, event, action.Params)
	case ActionCreatePayrollEvent:
		return r.createPayrollEvent(ctx, event, action.Params)
	case ActionUpdateEmployeeStatus:
		return r.updateEmployeeStatus(ctx, event, action.Params)
	}
	return fmt.Errorf("unknown action type %q", action.Type)
}

func (r *Runner) createAlert(ctx context.Context, event Event, params map[string]any) error {
	severity := paramString(params, "severity", "info")
	title := paramString(params, "title", event.Type)
	message := paramString(params, "message", "")
	employeeID := payloadString(event.Payload, "employeeId")

	_, err := r.DB.Exec(ctx, `
    INSERT INTO alerts (tenant_id, severity, title, message, employee_id)
    VALUES ($1,$2,$3,$4,NULLIF($5,'')::uuid)
  `, event.TenantID, severity, title, message, employeeID)
	return err
}

func (r *Runner) sendNotification(ctx context.Context, event Event, params map[string]any) error {
	userID := paramString(params, "userId", "")
	subject := paramString(params, "subject", event.Type)
	message := paramString(params, "message", "")

	_, err := r.DB.Exec(ctx, `
    INSERT INTO notifications (tenant_id, user_id, subject, message)
    VALUES ($1,NULLIF($2,'')::uuid,$3,$4)
  `, event.TenantID, userID, subject, message)
	if err != nil {
		return err
	}

	if userID == "" {
		return nil
	}
	var to string
	if err := r.DB.QueryRow(ctx,
		"SELECT email FROM users WHERE tenant_id = $1 AND id = $2",
		event.TenantID, userID).Scan(&to); err != nil {
		return err
	}
	return r.Mailer.Send(ctx, r.From, to, subject, message)
}

func (r *Runner) createPayrollEvent(ctx context.Context, event Event, params map[string]any) error {
	eventType := paramString(params, "eventType", event.Type)
	description := paramString(params, "description", "")
	amount := int64(0)
	if v, ok := asNumber(params["amount"]); ok {
		amount = int64(v)
	}
	employeeID := payloadString(event.Payload, "employeeId")

	_, err := r.DB.Exec(ctx, `
    INSERT INTO payroll_events (tenant_id, employee_id, event_type, amount, description)
    VALUES ($1,NULLIF($2,'')::uuid,$3,$4,$5)
  `, event.TenantID, employeeID, eventType, amount, description)
	return err
}

func (r *Runner) updateEmployeeStatus(ctx context.Context, event Event, params map[string]any) error {
	status := paramString(params, "status", "")
	if status == "" {
		return fmt.Errorf("update_employee_status requires a status param")
	}
	employeeID := payloadString(event.Payload, "employeeId")
	if employeeID == "" {
		return fmt.Errorf("event payload carries no employeeId")
	}

	tag, err := r.DB.Exec(ctx, `
    UPDATE employees SET status = $1 WHERE tenant_id = $2 AND id = $3
  `, status, event.TenantID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %s not found", employeeID)
	}
	return nil
}

func (r *Runner) activeRules(ctx context.Context, tenantID, trigger string) ([]Rule, error) {
	rows, err := r.DB.Query(ctx, `
    SELECT id, name, trigger_event, conditions, actions, active, created_at
    FROM workflow_rules
    WHERE tenant_id = $1 AND trigger_event = $2 AND active = true
    ORDER BY created_at
  `, tenantID, trigger)
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

func paramString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func decodeJSON[T any](raw []byte, into *T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}
