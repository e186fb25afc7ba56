package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/holidays"
	"sirh/internal/domain/leave"
	"sirh/internal/domain/payroll"
)

type Service struct {
	DB       *pgxpool.Pool
	Holidays *holidays.Service
	Payroll  *payroll.Service
}

func NewService(db *pgxpool.Pool, hols *holidays.Service, pay *payroll.Service) *Service {
	return &Service{DB: db, Holidays: hols, Payroll: pay}
}

// Attendance builds the per-employee attendance report for a period:
// weekday count, public holidays falling on weekdays, approved leave days,
// and the remainder actually worked.
func (s *Service) Attendance(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (AttendanceReport, error) {
	var country string
	if err := s.DB.QueryRow(ctx, "SELECT country_code FROM tenants WHERE id = $1", tenantID).Scan(&country); err != nil {
		return AttendanceReport{}, err
	}
	holidaySet, err := s.Holidays.ListByCountry(ctx, tenantID, country)
	if err != nil {
		return AttendanceReport{}, err
	}

	weekdays := leave.BusinessDays(periodStart, periodEnd, nil)
	openDays := leave.BusinessDays(periodStart, periodEnd, holidaySet)
	holidayCount := weekdays - openDays

	leaveDays, err := s.approvedLeaveDays(ctx, tenantID, periodStart, periodEnd, holidaySet)
	if err != nil {
		return AttendanceReport{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, COALESCE(department, '')
    FROM employees
    WHERE tenant_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, tenantID)
	if err != nil {
		return AttendanceReport{}, err
	}
	defer rows.Close()

	report := AttendanceReport{PeriodStart: periodStart, PeriodEnd: periodEnd}
	for rows.Next() {
		var row AttendanceRow
		if err := rows.Scan(&row.EmployeeID, &row.FirstName, &row.LastName, &row.Department); err != nil {
			return AttendanceReport{}, err
		}
		row.BusinessDays = weekdays
		row.Holidays = holidayCount
		row.LeaveDays = leaveDays[row.EmployeeID]
		row.WorkedDays = openDays - row.LeaveDays
		if row.WorkedDays < 0 {
			row.WorkedDays = 0
		}
		report.Rows = append(report.Rows, row)
	}
	return report, rows.Err()
}

// approvedLeaveDays sums approved leave per employee in business days,
// clipped to the report period so requests that only partially overlap do
// not count their full span.
func (s *Service) approvedLeaveDays(ctx context.Context, tenantID string, periodStart, periodEnd time.Time, holidaySet []holidays.PublicHoliday) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, start_date, end_date
    FROM leave_requests
    WHERE tenant_id = $1 AND status = 'approved' AND start_date <= $3 AND end_date >= $2
  `, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var employeeID string
		var start, end time.Time
		if err := rows.Scan(&employeeID, &start, &end); err != nil {
			return nil, err
		}
		out[employeeID] += clippedBusinessDays(start, end, periodStart, periodEnd, holidaySet)
	}
	return out, rows.Err()
}

// PayrollRegister renders the run's payslips as CSV. Returns the content
// and a suggested file name.
func (s *Service) PayrollRegister(ctx context.Context, tenantID, runID string) ([]byte, string, error) {
	run, err := s.Payroll.GetRun(ctx, tenantID, runID)
	if err != nil {
		return nil, "", err
	}
	slips, err := s.Payroll.ListPayslips(ctx, tenantID, runID)
	if err != nil {
		return nil, "", err
	}
	content, err := payrollRegisterCSV(slips)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("registre_paie_%s.csv", run.PeriodStart.Format("2006_01"))
	return content, name, nil
}
