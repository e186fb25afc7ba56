package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

type cnpsExportRow struct {
	CNPSNumber   string
	LastName     string
	FirstName    string
	DaysWorked   int
	Gross        int64
	PensionBase  int64
	CNPSEmployee int64
	CNPSEmployer int64
	CMU          int64
}

// ExportCNPSMonthly builds the monthly CNPS declaration workbook for the
// tenant: one row per employee paid during the month, with the capped
// pension base and both contribution shares. Returns the xlsx bytes and a
// suggested file name.
func (s *Service) ExportCNPSMonthly(ctx context.Context, tenantID string, year, month int) ([]byte, string, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(e.cnps_number, ''), e.last_name, e.first_name,
           SUM(p.days_worked), SUM(p.gross),
           SUM(p.cnps_employee), SUM(p.cnps_employer), SUM(p.cmu_employee + p.cmu_employer)
    FROM payslips p
    JOIN payroll_runs r ON r.id = p.run_id
    JOIN employees e ON e.id = p.employee_id
    WHERE p.tenant_id = $1
      AND r.status IN ($2, $3)
      AND r.period_start >= $4 AND r.period_start <= $5
    GROUP BY e.id, e.cnps_number, e.last_name, e.first_name
    ORDER BY e.last_name, e.first_name
  `, tenantID, RunStatusApproved, RunStatusPaid, monthStart, monthEnd)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var lines []cnpsExportRow
	for rows.Next() {
		var line cnpsExportRow
		if err := rows.Scan(&line.CNPSNumber, &line.LastName, &line.FirstName,
			&line.DaysWorked, &line.Gross, &line.CNPSEmployee, &line.CNPSEmployer, &line.CMU); err != nil {
			return nil, "", err
		}
		line.PensionBase = line.Gross
		if line.PensionBase > CNPSCeiling {
			line.PensionBase = CNPSCeiling
		}
		lines = append(lines, line)
	}

	content, err := buildCNPSWorkbook(year, month, lines)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("declaration_cnps_%04d_%02d.xlsx", year, month)
	return content, name, nil
}

func buildCNPSWorkbook(year, month int, lines []cnpsExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Déclaration CNPS"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Déclaration mensuelle CNPS - %02d/%04d", month, year)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	headers := []string{
		"Matricule CNPS", "Nom", "Prénoms", "Jours travaillés", "Salaire brut",
		"Assiette plafonnée", "Part salariale", "Part patronale", "CMU", "Total cotisations",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	var totalEmployee, totalEmployer, totalCMU int64
	for i, line := range lines {
		row := i + 4
		values := []interface{}{
			line.CNPSNumber, line.LastName, line.FirstName, line.DaysWorked, line.Gross,
			line.PensionBase, line.CNPSEmployee, line.CNPSEmployer, line.CMU,
			line.CNPSEmployee + line.CNPSEmployer + line.CMU,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
		totalEmployee += line.CNPSEmployee
		totalEmployer += line.CNPSEmployer
		totalCMU += line.CMU
	}

	totalRow := len(lines) + 5
	totals := map[string]interface{}{
		"A": "TOTAL",
		"G": totalEmployee,
		"H": totalEmployer,
		"I": totalCMU,
		"J": totalEmployee + totalEmployer + totalCMU,
	}
	for col, value := range totals {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, totalRow), value); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
