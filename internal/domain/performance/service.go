package performance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("objective not found")
	ErrInvalidTransition = errors.New("invalid objective transition")
	ErrNotEditable       = errors.New("objective is no longer editable")
	ErrNotInProgress     = errors.New("objective is not in progress")
	ErrInvalidInput      = errors.New("invalid objective input")
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Create(ctx context.Context, tenantID string, obj Objective) (string, error) {
	if !validLevel(obj.Level) || !validType(obj.Type) || obj.Weight < 0 || obj.Weight > 100 {
		return "", ErrInvalidInput
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO objectives (tenant_id, title, description, level, obj_type, weight,
                            target_value, current_value, due_date, owner_id, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,'')::uuid,$11)
    RETURNING id
  `, tenantID, obj.Title, obj.Description, obj.Level, obj.Type, obj.Weight,
		obj.TargetValue, obj.CurrentValue, obj.DueDate, obj.OwnerID, StatusDraft).Scan(&id)
	return id, err
}

// Update rewrites the objective definition. Locked once the draft leaves
// the drawing board.
func (s *Service) Update(ctx context.Context, tenantID string, obj Objective) error {
	if !validLevel(obj.Level) || !validType(obj.Type) || obj.Weight < 0 || obj.Weight > 100 {
		return ErrInvalidInput
	}
	current, err := s.Get(ctx, tenantID, obj.ID)
	if err != nil {
		return err
	}
	if !Editable(current.Status) {
		return ErrNotEditable
	}

	_, err = s.DB.Exec(ctx, `
    UPDATE objectives
    SET title = $1, description = $2, level = $3, obj_type = $4, weight = $5,
        target_value = $6, due_date = $7, owner_id = NULLIF($8,'')::uuid, updated_at = now()
    WHERE tenant_id = $9 AND id = $10
  `, obj.Title, obj.Description, obj.Level, obj.Type, obj.Weight,
		obj.TargetValue, obj.DueDate, obj.OwnerID, tenantID, obj.ID)
	return err
}

func (s *Service) Transition(ctx context.Context, tenantID, objectiveID, to string) error {
	current, err := s.Get(ctx, tenantID, objectiveID)
	if err != nil {
		return err
	}
	if !CanTransition(current.Status, to) {
		return ErrInvalidTransition
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE objectives SET status = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `, to, tenantID, objectiveID, current.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// UpdateProgress records the current value. Only meaningful while the
// objective is in progress.
func (s *Service) UpdateProgress(ctx context.Context, tenantID, objectiveID string, currentValue float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE objectives SET current_value = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `, currentValue, tenantID, objectiveID, StatusInProgress)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.Get(ctx, tenantID, objectiveID); getErr != nil {
			return getErr
		}
		return ErrNotInProgress
	}
	return nil
}

func (s *Service) Get(ctx context.Context, tenantID, objectiveID string) (Objective, error) {
	obj, err := scanObjective(s.DB.QueryRow(ctx, selectObjective+`
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, objectiveID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Objective{}, ErrNotFound
	}
	return obj, err
}

func (s *Service) List(ctx context.Context, tenantID, status, level string, limit, offset int) ([]Objective, error) {
	rows, err := s.DB.Query(ctx, selectObjective+`
    WHERE tenant_id = $1
      AND ($2 = '' OR status = $2)
      AND ($3 = '' OR level = $3)
    ORDER BY due_date, created_at
    LIMIT $4 OFFSET $5
  `, tenantID, status, level, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Objective
	for rows.Next() {
		obj, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

const selectObjective = `
    SELECT id, title, COALESCE(description, ''), level, obj_type, weight,
           target_value, current_value, due_date, COALESCE(owner_id::text, ''), status,
           created_at, updated_at
    FROM objectives
`

func scanObjective(row pgx.Row) (Objective, error) {
	var obj Objective
	err := row.Scan(&obj.ID, &obj.Title, &obj.Description, &obj.Level, &obj.Type, &obj.Weight,
		&obj.TargetValue, &obj.CurrentValue, &obj.DueDate, &obj.OwnerID, &obj.Status,
		&obj.CreatedAt, &obj.UpdatedAt)
	return obj, err
}
