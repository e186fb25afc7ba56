package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/employees"
)

type Service struct {
	DB        *pgxpool.Pool
	Employees *employees.Service
}

func NewService(db *pgxpool.Pool, emps *employees.Service) *Service {
	return &Service{DB: db, Employees: emps}
}

func (s *Service) CreateRun(ctx context.Context, tenantID string, periodStart, periodEnd, payDate time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs (tenant_id, period_start, period_end, pay_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, periodStart, periodEnd, payDate, RunStatusDraft).Scan(&id)
	return id, err
}

func (s *Service) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]Run, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_runs WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, period_start, period_end, pay_date, status, total_gross, total_net, employer_cost,
           employee_count, COALESCE(error, ''), created_at, calculated_at, approved_at, paid_at
    FROM payroll_runs
    WHERE tenant_id = $1
    ORDER BY period_start DESC, created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.PayDate, &run.Status,
			&run.TotalGross, &run.TotalNet, &run.EmployerCost, &run.EmployeeCount, &run.Error,
			&run.CreatedAt, &run.CalculatedAt, &run.ApprovedAt, &run.PaidAt); err != nil {
			return nil, 0, err
		}
		out = append(out, run)
	}
	return out, total, nil
}

func (s *Service) GetRun(ctx context.Context, tenantID, runID string) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_start, period_end, pay_date, status, total_gross, total_net, employer_cost,
           employee_count, COALESCE(error, ''), created_at, calculated_at, approved_at, paid_at
    FROM payroll_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.PayDate, &run.Status,
		&run.TotalGross, &run.TotalNet, &run.EmployerCost, &run.EmployeeCount, &run.Error,
		&run.CreatedAt, &run.CalculatedAt, &run.ApprovedAt, &run.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// SetDaysWorked records the declared task days for one employee on a run
// (CDDTI workers are paid per day). Only editable before calculation.
func (s *Service) SetDaysWorked(ctx context.Context, tenantID, runID, employeeID string, days int) error {
	run, err := s.GetRun(ctx, tenantID, runID)
	if err != nil {
		return err
	}
	if run.Status != RunStatusDraft && run.Status != RunStatusFailed {
		return ErrInvalidTransition
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_run_inputs (tenant_id, run_id, employee_id, days_worked)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (run_id, employee_id) DO UPDATE SET days_worked = EXCLUDED.days_worked
  `, tenantID, runID, employeeID, days)
	return err
}

// Calculate computes every active employee's payslip for the run. It is
// intended to execute on the jobs queue: the status guard makes concurrent
// calls on the same run a no-op conflict instead of a double calculation.
func (s *Service) Calculate(ctx context.Context, tenantID, runID string) error {
	var periodStart, periodEnd time.Time
	err := s.DB.QueryRow(ctx, `
    UPDATE payroll_runs SET status = $1, error = NULL
    WHERE tenant_id = $2 AND id = $3 AND status IN ($4, $5)
    RETURNING period_start, period_end
  `, RunStatusCalculating, tenantID, runID, RunStatusDraft, RunStatusFailed).Scan(&periodStart, &periodEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetRun(ctx, tenantID, runID); getErr != nil {
			return getErr
		}
		return ErrInvalidTransition
	}
	if err != nil {
		return err
	}

	if calcErr := s.calculate(ctx, tenantID, runID, periodStart, periodEnd); calcErr != nil {
		_, _ = s.DB.Exec(ctx, `
      UPDATE payroll_runs SET status = $1, error = $2 WHERE tenant_id = $3 AND id = $4
    `, RunStatusFailed, calcErr.Error(), tenantID, runID)
		return calcErr
	}
	return nil
}

func (s *Service) calculate(ctx context.Context, tenantID, runID string, periodStart, periodEnd time.Time) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM payslips WHERE tenant_id = $1 AND run_id = $2", tenantID, runID); err != nil {
		return err
	}

	people, err := s.Employees.ListPayrollData(ctx, tenantID)
	if err != nil {
		return err
	}
	declaredDays, err := s.declaredDays(ctx, tenantID, runID)
	if err != nil {
		return err
	}

	var totalGross, totalNet, employerCost int64
	count := 0
	for _, person := range people {
		days, gross, err := s.grossFor(ctx, tenantID, person, declaredDays, periodStart, periodEnd)
		if err != nil {
			return err
		}
		if gross <= 0 && person.ContractType == employees.ContractCDDTI {
			// Task worker with no declared days this run.
			continue
		}

		b := Compute(gross)
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO payslips (tenant_id, run_id, employee_id, contract_type, days_worked, gross,
                            cnps_employee, cnps_employer, cmu_employee, cmu_employer, its, net)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, tenantID, runID, person.EmployeeID, person.ContractType, days, b.Gross,
			b.CNPSEmployee, b.CNPSEmployer, b.CMUEmployee, b.CMUEmployer, b.ITS, b.Net); err != nil {
			return err
		}

		totalGross += b.Gross
		totalNet += b.Net
		employerCost += b.EmployerCost
		count++
	}

	_, err = s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET status = $1, total_gross = $2, total_net = $3, employer_cost = $4, employee_count = $5, calculated_at = now()
    WHERE tenant_id = $6 AND id = $7
  `, RunStatusCalculated, totalGross, totalNet, employerCost, count, tenantID, runID)
	return err
}

func (s *Service) grossFor(ctx context.Context, tenantID string, person employees.PayrollData, declared map[string]int, periodStart, periodEnd time.Time) (int, int64, error) {
	if person.ContractType == employees.ContractCDDTI {
		days := declared[person.EmployeeID]
		return days, person.DailyRate * int64(days), nil
	}

	unpaid, err := s.unpaidLeaveDays(ctx, tenantID, person.EmployeeID, periodStart, periodEnd)
	if err != nil {
		return 0, 0, err
	}
	days := DaysFullMonth - unpaid
	if days < 0 {
		days = 0
	}
	return days, ProratedGross(person.BaseSalary, unpaid), nil
}

func (s *Service) declaredDays(ctx context.Context, tenantID, runID string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, days_worked FROM payroll_run_inputs WHERE tenant_id = $1 AND run_id = $2
  `, tenantID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var employeeID string
		var days int
		if err := rows.Scan(&employeeID, &days); err != nil {
			return nil, err
		}
		out[employeeID] = days
	}
	return out, nil
}

func (s *Service) unpaidLeaveDays(ctx context.Context, tenantID, employeeID string, periodStart, periodEnd time.Time) (int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lr.start_date, lr.end_date
    FROM leave_requests lr
    JOIN leave_types lt ON lr.leave_type_id = lt.id
    WHERE lr.tenant_id = $1 AND lr.employee_id = $2 AND lr.status = 'approved'
      AND lt.is_paid = false
      AND lr.start_date <= $3 AND lr.end_date >= $4
  `, tenantID, employeeID, periodEnd, periodStart)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return 0, err
		}
		total += overlapDays(start, end, periodStart, periodEnd)
	}
	return total, nil
}

// overlapDays counts inclusive calendar days of [start, end] clipped to
// [periodStart, periodEnd].
func overlapDays(start, end, periodStart, periodEnd time.Time) int {
	if start.Before(periodStart) {
		start = periodStart
	}
	if end.After(periodEnd) {
		end = periodEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *Service) Approve(ctx context.Context, tenantID, runID string) error {
	return s.transition(ctx, tenantID, runID, RunStatusCalculated, RunStatusApproved, "approved_at")
}

func (s *Service) MarkPaid(ctx context.Context, tenantID, runID string) error {
	return s.transition(ctx, tenantID, runID, RunStatusApproved, RunStatusPaid, "paid_at")
}

func (s *Service) transition(ctx context.Context, tenantID, runID, from, to, stampColumn string) error {
	query := fmt.Sprintf(`
    UPDATE payroll_runs SET status = $1, %s = now()
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `, stampColumn)
	tag, err := s.DB.Exec(ctx, query, to, tenantID, runID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.GetRun(ctx, tenantID, runID); getErr != nil {
			return getErr
		}
		return ErrInvalidTransition
	}
	return nil
}

func (s *Service) ListPayslips(ctx context.Context, tenantID, runID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.run_id, p.employee_id, e.first_name, e.last_name, p.contract_type, p.days_worked,
           p.gross, p.cnps_employee, p.cnps_employer, p.cmu_employee, p.cmu_employer, p.its, p.net, p.created_at
    FROM payslips p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.tenant_id = $1 AND p.run_id = $2
    ORDER BY e.last_name, e.first_name
  `, tenantID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		var p Payslip
		if err := rows.Scan(&p.ID, &p.RunID, &p.EmployeeID, &p.FirstName, &p.LastName, &p.ContractType, &p.DaysWorked,
			&p.Gross, &p.CNPSEmployee, &p.CNPSEmployer, &p.CMUEmployee, &p.CMUEmployer, &p.ITS, &p.Net, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// MonthlySummary aggregates every calculated run of the calendar month,
// applying the CDDTI reassessment rule.
func (s *Service) MonthlySummary(ctx context.Context, tenantID string, year, month int) (MonthlySummary, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rows, err := s.DB.Query(ctx, `
    SELECT p.employee_id, e.first_name, e.last_name, p.contract_type, p.days_worked, p.gross,
           p.cnps_employee + p.cmu_employee + p.its, p.net
    FROM payslips p
    JOIN payroll_runs r ON r.id = p.run_id
    JOIN employees e ON e.id = p.employee_id
    WHERE p.tenant_id = $1
      AND r.status IN ($2, $3, $4)
      AND r.period_start >= $5 AND r.period_start <= $6
  `, tenantID, RunStatusCalculated, RunStatusApproved, RunStatusPaid, monthStart, monthEnd)
	if err != nil {
		return MonthlySummary{}, err
	}
	defer rows.Close()

	var lines []slipLine
	for rows.Next() {
		var line slipLine
		if err := rows.Scan(&line.EmployeeID, &line.FirstName, &line.LastName, &line.ContractType,
			&line.DaysWorked, &line.Gross, &line.Withheld, &line.Net); err != nil {
			return MonthlySummary{}, err
		}
		lines = append(lines, line)
	}

	summary := MonthlySummary{Year: year, Month: month, Employees: aggregateMonth(lines)}
	for _, emp := range summary.Employees {
		summary.TotalGross += emp.Gross
		summary.TotalNet += emp.Net
	}
	return summary, nil
}

// AverageMonthlyGross is the employee's mean gross over their last twelve
// payslips, used for severance.
func (s *Service) AverageMonthlyGross(ctx context.Context, tenantID, employeeID string) (int64, error) {
	var avg *float64
	err := s.DB.QueryRow(ctx, `
    SELECT AVG(gross) FROM (
      SELECT gross FROM payslips
      WHERE tenant_id = $1 AND employee_id = $2
      ORDER BY created_at DESC
      LIMIT 12
    ) recent
  `, tenantID, employeeID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return int64(*avg + 0.5), nil
}
