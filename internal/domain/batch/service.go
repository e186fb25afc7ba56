package batch

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("batch operation not found")
	ErrInvalidInput  = errors.New("invalid batch operation")
	ErrNotCancelable = errors.New("batch operation already finished")
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Create(ctx context.Context, tenantID, createdBy string, op Operation) (string, error) {
	if !ValidType(op.Type) || len(op.EmployeeIDs) == 0 {
		return "", ErrInvalidInput
	}
	params, err := json.Marshal(op.Params)
	if err != nil {
		return "", err
	}
	employeeIDs, err := json.Marshal(op.EmployeeIDs)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO batch_operations (tenant_id, op_type, params, employee_ids, status, total, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id
  `, tenantID, op.Type, params, employeeIDs, StatusPending, len(op.EmployeeIDs), createdBy).Scan(&id)
	return id, err
}

func (s *Service) Get(ctx context.Context, tenantID, opID string) (Operation, error) {
	op, err := scanOperation(s.DB.QueryRow(ctx, selectOperation+`
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, opID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Operation{}, ErrNotFound
	}
	if err != nil {
		return Operation{}, err
	}
	op.RowErrors, err = s.rowErrors(ctx, tenantID, opID)
	return op, err
}

func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Operation, error) {
	rows, err := s.DB.Query(ctx, selectOperation+`
    WHERE tenant_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

// Cancel flags the operation; the processor honors the flag between rows.
func (s *Service) Cancel(ctx context.Context, tenantID, opID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE batch_operations SET cancel_requested = true
    WHERE tenant_id = $1 AND id = $2 AND status IN ($3, $4)
  `, tenantID, opID, StatusPending, StatusRunning)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.DB.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM batch_operations WHERE tenant_id = $1 AND id = $2)",
			tenantID, opID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrNotCancelable
	}
	return nil
}

func (s *Service) rowErrors(ctx context.Context, tenantID, opID string) ([]RowError, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, message FROM batch_operation_errors
    WHERE tenant_id = $1 AND operation_id = $2
    ORDER BY created_at
  `, tenantID, opID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RowError
	for rows.Next() {
		var re RowError
		if err := rows.Scan(&re.EmployeeID, &re.Message); err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

const selectOperation = `
    SELECT id, op_type, params, employee_ids, status, total, processed, succeeded, failed,
           created_by, created_at, started_at, completed_at
    FROM batch_operations
`

func scanOperation(row pgx.Row) (Operation, error) {
	var op Operation
	var params, employeeIDs []byte
	var createdBy *string
	if err := row.Scan(&op.ID, &op.Type, &params, &employeeIDs, &op.Status, &op.Total,
		&op.Processed, &op.Succeeded, &op.Failed, &createdBy, &op.CreatedAt,
		&op.StartedAt, &op.CompletedAt); err != nil {
		return Operation{}, err
	}
	if createdBy != nil {
		op.CreatedBy = *createdBy
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &op.Params); err != nil {
			return Operation{}, err
		}
	}
	if len(employeeIDs) > 0 {
		if err := json.Unmarshal(employeeIDs, &op.EmployeeIDs); err != nil {
			return Operation{}, err
		}
	}
	return op, nil
}
