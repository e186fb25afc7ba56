package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"sirh/internal/domain/holidays"
	"sirh/internal/domain/leave"
	"sirh/internal/domain/payroll"
)

// clippedBusinessDays counts the business days of a leave span that fall
// inside the report period.
func clippedBusinessDays(start, end, periodStart, periodEnd time.Time, publicHolidays []holidays.PublicHoliday) int {
	if start.Before(periodStart) {
		start = periodStart
	}
	if end.After(periodEnd) {
		end = periodEnd
	}
	return leave.BusinessDays(start, end, publicHolidays)
}

// payrollRegisterCSV renders one run's payslips as a CSV register.
func payrollRegisterCSV(slips []payroll.Payslip) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"matricule", "nom", "prenom", "type_contrat", "jours",
		"brut", "cnps_salarie", "cmu_salarie", "its", "net",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, slip := range slips {
		record := []string{
			slip.EmployeeID,
			slip.LastName,
			slip.FirstName,
			slip.ContractType,
			strconv.Itoa(slip.DaysWorked),
			strconv.FormatInt(slip.Gross, 10),
			strconv.FormatInt(slip.CNPSEmployee, 10),
			strconv.FormatInt(slip.CMUEmployee, 10),
			strconv.FormatInt(slip.ITS, 10),
			strconv.FormatInt(slip.Net, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
