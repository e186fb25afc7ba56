package terminations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/documents"
	"sirh/internal/domain/employees"
	"sirh/internal/domain/payroll"
)

var (
	ErrNotFound          = errors.New("termination not found")
	ErrInvalidReason     = errors.New("invalid termination reason")
	ErrAlreadyTerminated = errors.New("employee already terminated")
	ErrBeforeHire        = errors.New("termination date precedes hire date")
)

type Service struct {
	DB        *pgxpool.Pool
	Employees *employees.Service
	Payroll   *payroll.Service
	Documents *documents.Service
}

func NewService(db *pgxpool.Pool, emps *employees.Service, pay *payroll.Service, docs *documents.Service) *Service {
	return &Service{DB: db, Employees: emps, Payroll: pay, Documents: docs}
}

// Create records the termination, computes the legal indemnity, closes the
// employee's record and generates the three exit documents.
func (s *Service) Create(ctx context.Context, tenantID string, input CreateInput) (Termination, error) {
	if !ValidReason(input.Reason) {
		return Termination{}, ErrInvalidReason
	}

	emp, err := s.Employees.Get(ctx, tenantID, input.EmployeeID)
	if err != nil {
		return Termination{}, err
	}
	if emp.Status == employees.StatusTerminated {
		return Termination{}, ErrAlreadyTerminated
	}
	if input.TerminationDate.Before(emp.HireDate) {
		return Termination{}, ErrBeforeHire
	}

	years := employees.YearsOfService(emp.HireDate, input.TerminationDate)
	avg, err := s.Payroll.AverageMonthlyGross(ctx, tenantID, input.EmployeeID)
	if err != nil {
		return Termination{}, err
	}
	if avg == 0 {
		avg = emp.BaseSalary
	}

	var severance int64
	if SeveranceEligible(input.Reason) {
		severance = payroll.Severance(avg, years)
	}

	term := Termination{
		EmployeeID:      input.EmployeeID,
		FirstName:       emp.FirstName,
		LastName:        emp.LastName,
		TerminationDate: input.TerminationDate,
		Reason:          input.Reason,
		NoticeDays:      input.NoticeDays,
		YearsOfService:  years,
		Severance:       severance,
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Termination{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
    INSERT INTO terminations (tenant_id, employee_id, termination_date, reason, notice_days,
                              years_of_service, severance)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, tenantID, input.EmployeeID, input.TerminationDate, input.Reason, input.NoticeDays,
		years, severance).Scan(&term.ID, &term.CreatedAt)
	if err != nil {
		return Termination{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE employees SET status = $1, termination_date = $2 WHERE tenant_id = $3 AND id = $4
  `, employees.StatusTerminated, input.TerminationDate, tenantID, input.EmployeeID); err != nil {
		return Termination{}, err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE contracts SET status = $1, end_date = $2
    WHERE tenant_id = $3 AND employee_id = $4 AND status = $5
  `, employees.ContractStatusClosed, input.TerminationDate, tenantID, input.EmployeeID,
		employees.ContractStatusActive); err != nil {
		return Termination{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Termination{}, err
	}

	if err := s.generateDocuments(ctx, tenantID, &term, emp, avg); err != nil {
		return Termination{}, fmt.Errorf("generate exit documents: %w", err)
	}
	return term, nil
}

func (s *Service) generateDocuments(ctx context.Context, tenantID string, term *Termination, emp employees.Employee, avg int64) error {
	cert, _, err := s.Documents.GenerateForEmployee(ctx, tenantID, term.EmployeeID, documents.TypeWorkCertificate)
	if err != nil {
		return err
	}
	attest, _, err := s.Documents.GenerateForEmployee(ctx, tenantID, term.EmployeeID, documents.TypeCNPSAttestation)
	if err != nil {
		return err
	}

	var companyName string
	if err := s.DB.QueryRow(ctx, "SELECT name FROM tenants WHERE id = $1", tenantID).Scan(&companyName); err != nil {
		return err
	}

	var noticePay int64
	if term.NoticeDays > 0 && term.Reason == ReasonLicenciement {
		noticePay = avg * int64(term.NoticeDays) / payroll.DaysFullMonth
	}

	b := payroll.Compute(avg)
	content, err := documents.FinalPayslip(documents.FinalPayslipData{
		CompanyName:  companyName,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		CNPSNumber:   emp.CNPSNumber,
		EndDate:      term.TerminationDate,
		Gross:        b.Gross,
		CNPSEmployee: b.CNPSEmployee,
		CMUEmployee:  b.CMUEmployee,
		ITS:          b.ITS,
		Severance:    term.Severance,
		NoticePay:    noticePay,
		Net:          b.Net + term.Severance + noticePay,
	})
	if err != nil {
		return err
	}
	fileName := fmt.Sprintf("solde_tout_compte_%s_%s.pdf", emp.LastName, emp.FirstName)
	slip, err := s.Documents.Store(ctx, tenantID, term.EmployeeID, documents.TypeFinalPayslip, fileName, content)
	if err != nil {
		return err
	}

	now := time.Now()
	term.WorkCertificateID = cert.ID
	term.CNPSAttestationID = attest.ID
	term.FinalPayslipID = slip.ID
	term.DocumentsAt = &now

	_, err = s.DB.Exec(ctx, `
    UPDATE terminations
    SET work_certificate_id = $1, cnps_attestation_id = $2, final_payslip_id = $3, documents_at = $4
    WHERE tenant_id = $5 AND id = $6
  `, cert.ID, attest.ID, slip.ID, now, tenantID, term.ID)
	return err
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Termination, error) {
	term, err := s.scanOne(s.DB.QueryRow(ctx, selectTermination+`
    WHERE t.tenant_id = $1 AND t.id = $2
  `, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Termination{}, ErrNotFound
	}
	return term, err
}

func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Termination, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM terminations WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, selectTermination+`
    WHERE t.tenant_id = $1
    ORDER BY t.termination_date DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Termination
	for rows.Next() {
		term, err := s.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, term)
	}
	return out, total, nil
}

const selectTermination = `
    SELECT t.id, t.employee_id, e.first_name, e.last_name, t.termination_date, t.reason,
           t.notice_days, t.years_of_service, t.severance, t.created_at,
           COALESCE(t.work_certificate_id::text, ''), COALESCE(t.cnps_attestation_id::text, ''),
           COALESCE(t.final_payslip_id::text, ''), t.documents_at
    FROM terminations t
    JOIN employees e ON e.id = t.employee_id
`

func (s *Service) scanOne(row pgx.Row) (Termination, error) {
	var term Termination
	err := row.Scan(&term.ID, &term.EmployeeID, &term.FirstName, &term.LastName, &term.TerminationDate,
		&term.Reason, &term.NoticeDays, &term.YearsOfService, &term.Severance, &term.CreatedAt,
		&term.WorkCertificateID, &term.CNPSAttestationID, &term.FinalPayslipID, &term.DocumentsAt)
	return term, err
}
