package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/holidays"
)

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrNotPending   = errors.New("leave request already decided")
	ErrEmptyRequest = errors.New("leave request covers no business day")
)

type Service struct {
	DB       *pgxpool.Pool
	Holidays *holidays.Service
}

func NewService(db *pgxpool.Pool, hols *holidays.Service) *Service {
	return &Service{DB: db, Holidays: hols}
}

func (s *Service) ListTypes(ctx context.Context, tenantID string) ([]Type, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, is_paid, annual_entitlement, created_at
    FROM leave_types WHERE tenant_id = $1 ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Type
	for rows.Next() {
		var lt Type
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.IsPaid, &lt.AnnualEntitlement, &lt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, nil
}

func (s *Service) CreateType(ctx context.Context, tenantID string, lt Type) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (tenant_id, name, is_paid, annual_entitlement)
    VALUES ($1,$2,$3,$4) RETURNING id
  `, tenantID, lt.Name, lt.IsPaid, lt.AnnualEntitlement).Scan(&id)
	return id, err
}

type CreateRequestInput struct {
	EmployeeID string
	TypeID     string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// CreateRequest files a pending request. The day count excludes weekends
// and the tenant country's public holidays.
func (s *Service) CreateRequest(ctx context.Context, tenantID string, input CreateRequestInput) (Request, error) {
	var country string
	if err := s.DB.QueryRow(ctx, "SELECT country_code FROM tenants WHERE id = $1", tenantID).Scan(&country); err != nil {
		return Request{}, err
	}
	set, err := s.Holidays.ListByCountry(ctx, tenantID, country)
	if err != nil {
		return Request{}, err
	}

	days := BusinessDays(input.StartDate, input.EndDate, set)
	if days == 0 {
		return Request{}, ErrEmptyRequest
	}

	var req Request
	err = s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (tenant_id, employee_id, leave_type_id, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at
  `, tenantID, input.EmployeeID, input.TypeID, input.StartDate, input.EndDate, days,
		input.Reason, StatusPending).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return Request{}, err
	}

	req.EmployeeID = input.EmployeeID
	req.TypeID = input.TypeID
	req.StartDate = input.StartDate
	req.EndDate = input.EndDate
	req.Days = days
	req.Reason = input.Reason
	req.Status = StatusPending
	return req, nil
}

func (s *Service) Approve(ctx context.Context, tenantID, requestID, deciderUserID string) error {
	return s.decide(ctx, tenantID, requestID, deciderUserID, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, tenantID, requestID, deciderUserID string) error {
	return s.decide(ctx, tenantID, requestID, deciderUserID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, tenantID, requestID, deciderUserID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests SET status = $1, decided_by = $2, decided_at = now()
    WHERE tenant_id = $3 AND id = $4 AND status = $5
  `, status, deciderUserID, tenantID, requestID, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.DB.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM leave_requests WHERE tenant_id = $1 AND id = $2)",
			tenantID, requestID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrNotPending
	}
	return nil
}

func (s *Service) ListRequests(ctx context.Context, tenantID, employeeID, status string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lr.id, lr.employee_id, e.first_name, e.last_name, lr.leave_type_id, lt.name, lt.is_paid,
           lr.start_date, lr.end_date, lr.days, COALESCE(lr.reason, ''), lr.status,
           COALESCE(lr.decided_by::text, ''), lr.decided_at, lr.created_at
    FROM leave_requests lr
    JOIN leave_types lt ON lt.id = lr.leave_type_id
    JOIN employees e ON e.id = lr.employee_id
    WHERE lr.tenant_id = $1
      AND ($2 = '' OR lr.employee_id::text = $2)
      AND ($3 = '' OR lr.status = $3)
    ORDER BY lr.created_at DESC
    LIMIT $4 OFFSET $5
  `, tenantID, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.FirstName, &req.LastName, &req.TypeID,
			&req.TypeName, &req.IsPaid, &req.StartDate, &req.EndDate, &req.Days, &req.Reason,
			&req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// Balances reports remaining entitlement per leave type for one employee
// over a calendar year.
func (s *Service) Balances(ctx context.Context, tenantID, employeeID string, year int) ([]Balance, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	rows, err := s.DB.Query(ctx, `
    SELECT lt.id, lt.name, lt.annual_entitlement,
           COALESCE(SUM(lr.days) FILTER (WHERE lr.status = $4
             AND lr.start_date >= $2 AND lr.start_date <= $3), 0)
    FROM leave_types lt
    LEFT JOIN leave_requests lr
      ON lr.leave_type_id = lt.id AND lr.employee_id = $5
    WHERE lt.tenant_id = $1
    GROUP BY lt.id, lt.name, lt.annual_entitlement
    ORDER BY lt.name
  `, tenantID, yearStart, yearEnd, StatusApproved, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.TypeID, &b.TypeName, &b.Entitlement, &b.Taken); err != nil {
			return nil, err
		}
		b.Remaining = b.Entitlement - b.Taken
		out = append(out, b)
	}
	return out, nil
}
