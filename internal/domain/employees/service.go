package employees

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/platform/crypto"
)

var ErrNotRenewable = errors.New("contract is not renewable")

type Service struct {
	DB     *pgxpool.Pool
	Cipher *crypto.Cipher
}

func NewService(db *pgxpool.Pool, cipher *crypto.Cipher) *Service {
	return &Service{DB: db, Cipher: cipher}
}

type CreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	CNPSNumber  string
	Department  string
	Position    string
	HireDate    time.Time
	BaseSalary  int64
	BankAccount string

	ContractType string
	StartDate    time.Time
	EndDate      *time.Time
	Reason       string
	DailyRate    int64
}

func (s *Service) Create(ctx context.Context, tenantID string, in CreateInput) (string, error) {
	in.ContractType = NormalizeContractType(in.ContractType)
	salaryPlain, salaryEnc, err := s.sealSalary(in.BaseSalary)
	if err != nil {
		return "", err
	}
	bankPlain, bankEnc, err := s.sealBank(in.BankAccount)
	if err != nil {
		return "", err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employeeID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, first_name, last_name, email, cnps_number, department, position, hire_date, status, base_salary, base_salary_enc, bank_account, bank_account_enc)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, tenantID, in.FirstName, in.LastName, in.Email, in.CNPSNumber, in.Department, in.Position, in.HireDate, StatusActive, salaryPlain, salaryEnc, bankPlain, bankEnc).Scan(&employeeID); err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO contracts (tenant_id, employee_id, contract_type, start_date, end_date, reason, daily_rate, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, tenantID, employeeID, in.ContractType, in.StartDate, in.EndDate, in.Reason, in.DailyRate, ContractStatusActive); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return employeeID, nil
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	var e Employee
	var salaryPlain *int64
	var salaryEnc, bankEnc []byte
	var bankPlain string
	err := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, COALESCE(cnps_number, ''), COALESCE(department, ''), COALESCE(position, ''),
           hire_date, status, base_salary, base_salary_enc, COALESCE(bank_account, ''), bank_account_enc, created_at
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.CNPSNumber, &e.Department, &e.Position,
		&e.HireDate, &e.Status, &salaryPlain, &salaryEnc, &bankPlain, &bankEnc, &e.CreatedAt)
	if err != nil {
		return Employee{}, err
	}
	e.BaseSalary, err = s.openSalary(salaryPlain, salaryEnc)
	if err != nil {
		return Employee{}, err
	}
	e.BankAccount, err = s.openBank(bankPlain, bankEnc)
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, tenantID, status, department string, limit, offset int) ([]Employee, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{tenantID}
	if status != "" {
		args = append(args, status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}
	if department != "" {
		args = append(args, department)
		where += " AND department = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
    SELECT id, first_name, last_name, email, COALESCE(cnps_number, ''), COALESCE(department, ''), COALESCE(position, ''), hire_date, status, created_at
    FROM employees
    %s
    ORDER BY last_name, first_name
    LIMIT $%d OFFSET $%d
  `, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.CNPSNumber, &e.Department, &e.Position, &e.HireDate, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, nil
}

func (s *Service) UpdateStatus(ctx context.Context, tenantID, employeeID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1 WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Service) UpdateSalary(ctx context.Context, tenantID, employeeID string, salary int64) error {
	salaryPlain, salaryEnc, err := s.sealSalary(salary)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET base_salary = $1, base_salary_enc = $2 WHERE tenant_id = $3 AND id = $4
  `, salaryPlain, salaryEnc, tenantID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Service) Salary(ctx context.Context, tenantID, employeeID string) (int64, error) {
	var salaryPlain *int64
	var salaryEnc []byte
	if err := s.DB.QueryRow(ctx, `
    SELECT base_salary, base_salary_enc FROM employees WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID).Scan(&salaryPlain, &salaryEnc); err != nil {
		return 0, err
	}
	return s.openSalary(salaryPlain, salaryEnc)
}

func (s *Service) ListContracts(ctx context.Context, tenantID, employeeID string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, contract_type, start_date, end_date, COALESCE(reason, ''), daily_rate, status, created_at
    FROM contracts
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY start_date DESC
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.ContractType, &c.StartDate, &c.EndDate, &c.Reason, &c.DailyRate, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Service) ActiveContract(ctx context.Context, tenantID, employeeID string) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, contract_type, start_date, end_date, COALESCE(reason, ''), daily_rate, status, created_at
    FROM contracts
    WHERE tenant_id = $1 AND employee_id = $2 AND status = $3
    ORDER BY start_date DESC
    LIMIT 1
  `, tenantID, employeeID, ContractStatusActive).Scan(&c.ID, &c.EmployeeID, &c.ContractType, &c.StartDate, &c.EndDate, &c.Reason, &c.DailyRate, &c.Status, &c.CreatedAt)
	return c, err
}

// RenewContract closes the active fixed-term contract and opens a new one
// extending it by the given number of months.
func (s *Service) RenewContract(ctx context.Context, tenantID, employeeID string, months int) (string, error) {
	current, err := s.ActiveContract(ctx, tenantID, employeeID)
	if err != nil {
		return "", err
	}
	if current.ContractType == ContractCDI || current.EndDate == nil {
		return "", fmt.Errorf("%w: contract %s", ErrNotRenewable, current.ID)
	}

	newEnd := RenewalEndDate(*current.EndDate, months)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    UPDATE contracts SET status = $1 WHERE tenant_id = $2 AND id = $3
  `, ContractStatusClosed, tenantID, current.ID); err != nil {
		return "", err
	}

	var newID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO contracts (tenant_id, employee_id, contract_type, start_date, end_date, reason, daily_rate, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, tenantID, employeeID, current.ContractType, *current.EndDate, newEnd, current.Reason, current.DailyRate, ContractStatusActive).Scan(&newID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return newID, nil
}

// ListPayrollData returns active employees with decrypted salary and their
// active contract, for a payroll run.
func (s *Service) ListPayrollData(ctx context.Context, tenantID string) ([]PayrollData, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, COALESCE(e.cnps_number, ''), e.first_name, e.last_name, e.base_salary, e.base_salary_enc,
           COALESCE(c.contract_type, 'CDI'), COALESCE(c.daily_rate, 0)
    FROM employees e
    LEFT JOIN contracts c ON c.employee_id = e.id AND c.status = 'active'
    WHERE e.tenant_id = $1 AND e.status = $2
    ORDER BY e.last_name, e.first_name
  `, tenantID, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayrollData
	for rows.Next() {
		var d PayrollData
		var salaryPlain *int64
		var salaryEnc []byte
		if err := rows.Scan(&d.EmployeeID, &d.CNPSNumber, &d.FirstName, &d.LastName, &salaryPlain, &salaryEnc, &d.ContractType, &d.DailyRate); err != nil {
			return nil, err
		}
		salary, err := s.openSalary(salaryPlain, salaryEnc)
		if err != nil {
			return nil, err
		}
		d.BaseSalary = salary
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) ExpiringContracts(ctx context.Context, tenantID string, from, to time.Time) ([]ExpiringContract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.employee_id, e.first_name, e.last_name, c.contract_type, c.end_date
    FROM contracts c
    JOIN employees e ON e.id = c.employee_id
    WHERE c.tenant_id = $1 AND c.status = $2 AND c.end_date IS NOT NULL AND c.end_date >= $3 AND c.end_date <= $4
    ORDER BY c.end_date
  `, tenantID, ContractStatusActive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpiringContract
	for rows.Next() {
		var c ExpiringContract
		if err := rows.Scan(&c.ContractID, &c.EmployeeID, &c.FirstName, &c.LastName, &c.ContractType, &c.EndDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// sealSalary returns the column pair for a salary. When a key is configured
// only the ciphertext carries the value; the plain column stays at zero to
// satisfy its NOT NULL constraint.
func (s *Service) sealSalary(salary int64) (int64, []byte, error) {
	if s.Cipher != nil && s.Cipher.Configured() {
		enc, err := s.Cipher.SealString(strconv.FormatInt(salary, 10))
		if err != nil {
			return 0, nil, err
		}
		return 0, enc, nil
	}
	return salary, nil, nil
}

func (s *Service) openSalary(plain *int64, enc []byte) (int64, error) {
	if len(enc) > 0 && s.Cipher != nil {
		raw, err := s.Cipher.OpenString(enc)
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(raw, 10, 64)
	}
	if plain != nil {
		return *plain, nil
	}
	return 0, nil
}

func (s *Service) sealBank(account string) (string, []byte, error) {
	if account == "" {
		return "", nil, nil
	}
	if s.Cipher != nil && s.Cipher.Configured() {
		enc, err := s.Cipher.SealString(account)
		if err != nil {
			return "", nil, err
		}
		return "", enc, nil
	}
	return account, nil, nil
}

func (s *Service) openBank(plain string, enc []byte) (string, error) {
	if len(enc) > 0 && s.Cipher != nil {
		return s.Cipher.OpenString(enc)
	}
	return plain, nil
}
