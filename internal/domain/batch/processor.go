package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/documents"
	"sirh/internal/domain/employees"
)

// Processor walks a batch operation row by row on the jobs queue. Counters
// are persisted as rows finish so list polling sees live progress, and the
// cancel flag is honored between rows.
type Processor struct {
	DB        *pgxpool.Pool
	Employees *employees.Service
	Documents *documents.Service
	Logger    *slog.Logger
}

func NewProcessor(db *pgxpool.Pool, emps *employees.Service, docs *documents.Service, logger *slog.Logger) *Processor {
	return &Processor{DB: db, Employees: emps, Documents: docs, Logger: logger}
}

func (p *Processor) Process(ctx context.Context, tenantID, opID string) error {
	op, err := p.claim(ctx, tenantID, opID)
	if err != nil {
		return err
	}

	succeeded, failed := 0, 0
	for i, employeeID := range op.EmployeeIDs {
		cancelled, err := p.cancelRequested(ctx, tenantID, opID)
		if err != nil {
			return p.finish(ctx, tenantID, opID, StatusFailed, err)
		}
		if cancelled {
			p.Logger.Info("batch operation cancelled", "operation", opID, "processed", i)
			return p.finish(ctx, tenantID, opID, StatusCancelled, nil)
		}

		if rowErr := p.processRow(ctx, tenantID, op.Type, op.Params, employeeID); rowErr != nil {
			failed++
			if err := p.recordRowError(ctx, tenantID, opID, employeeID, rowErr); err != nil {
				return p.finish(ctx, tenantID, opID, StatusFailed, err)
			}
		} else {
			succeeded++
		}

		if _, err := p.DB.Exec(ctx, `
      UPDATE batch_operations SET processed = $1, succeeded = $2, failed = $3
      WHERE tenant_id = $4 AND id = $5
    `, i+1, succeeded, failed, tenantID, opID); err != nil {
			return p.finish(ctx, tenantID, opID, StatusFailed, err)
		}
	}

	// Row failures do not fail the batch; they are reported per row.
	return p.finish(ctx, tenantID, opID, StatusCompleted, nil)
}

func (p *Processor) claim(ctx context.Context, tenantID, opID string) (Operation, error) {
	svc := &Service{DB: p.DB}
	op, err := svc.Get(ctx, tenantID, opID)
	if err != nil {
		return Operation{}, err
	}

	tag, err := p.DB.Exec(ctx, `
    UPDATE batch_operations SET status = $1, started_at = now()
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `, StatusRunning, tenantID, opID, StatusPending)
	if err != nil {
		return Operation{}, err
	}
	if tag.RowsAffected() == 0 {
		return Operation{}, fmt.Errorf("batch operation %s is not pending", opID)
	}
	return op, nil
}

func (p *Processor) finish(ctx context.Context, tenantID, opID, status string, cause error) error {
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	if _, err := p.DB.Exec(ctx, `
    UPDATE batch_operations SET status = $1, error = NULLIF($2,''), completed_at = now()
    WHERE tenant_id = $3 AND id = $4
  `, status, errText, tenantID, opID); err != nil {
		return err
	}
	return cause
}

func (p *Processor) cancelRequested(ctx context.Context, tenantID, opID string) (bool, error) {
	var cancelled bool
	err := p.DB.QueryRow(ctx,
		"SELECT cancel_requested FROM batch_operations WHERE tenant_id = $1 AND id = $2",
		tenantID, opID).Scan(&cancelled)
	return cancelled, err
}

func (p *Processor) recordRowError(ctx context.Context, tenantID, opID, employeeID string, rowErr error) error {
	_, err := p.DB.Exec(ctx, `
    INSERT INTO batch_operation_errors (tenant_id, operation_id, employee_id, message)
    VALUES ($1,$2,$3,$4)
  `, tenantID, opID, employeeID, rowErr.Error())
	return err
}

func (p *Processor) processRow(ctx context.Context, tenantID, opType string, params map[string]any, employeeID string) error {
	switch opType {
	case TypeSalaryUpdate:
		return p.updateSalary(ctx, tenantID, params, employeeID)
	case TypeDocumentGeneration:
		return p.generateDocument(ctx, tenantID, params, employeeID)
	case TypeContractRenewal:
		return p.renewContract(ctx, tenantID, params, employeeID)
	}
	return fmt.Errorf("unknown operation type %q", opType)
}

// updateSalary applies an absolute amount or a percentage adjustment.
func (p *Processor) updateSalary(ctx context.Context, tenantID string, params map[string]any, employeeID string) error {
	mode, _ := params["mode"].(string)
	value, ok := params["value"].(float64)
	if !ok {
		return fmt.Errorf("salary_update requires a numeric value")
	}

	var newSalary int64
	switch mode {
	case "absolute":
		newSalary = int64(value)
	case "percentage":
		current, err := p.Employees.Salary(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		newSalary = int64(math.Round(float64(current) * (1 + value/100)))
	default:
		return fmt.Errorf("salary_update mode must be absolute or percentage")
	}
	if newSalary < 0 {
		return fmt.Errorf("adjusted salary is negative")
	}
	return p.Employees.UpdateSalary(ctx, tenantID, employeeID, newSalary)
}

func (p *Processor) generateDocument(ctx context.Context, tenantID string, params map[string]any, employeeID string) error {
	docType, _ := params["documentType"].(string)
	if docType == "" {
		docType = documents.TypeWorkCertificate
	}
	_, _, err := p.Documents.GenerateForEmployee(ctx, tenantID, employeeID, docType)
	return err
}

func (p *Processor) renewContract(ctx context.Context, tenantID string, params map[string]any, employeeID string) error {
	months, ok := params["months"].(float64)
	if !ok || months <= 0 {
		return fmt.Errorf("contract_renewal requires a positive months param")
	}
	_, err := p.Employees.RenewContract(ctx, tenantID, employeeID, int(months))
	return err
}
