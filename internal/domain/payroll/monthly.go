package payroll

import "sort"

// aggregateMonth folds one month's payslip lines into per-employee
// summaries. A CDDTI worker reaching the 21-day threshold is reassessed on
// the aggregated monthly gross; the difference against what the individual
// runs already withheld is reported as a regularization (positive means
// additional deductions are owed on the last run of the month).
func aggregateMonth(lines []slipLine) []MonthlyEmployeeSummary {
	byEmployee := map[string]*MonthlyEmployeeSummary{}
	for _, line := range lines {
		summary, ok := byEmployee[line.EmployeeID]
		if !ok {
			summary = &MonthlyEmployeeSummary{
				EmployeeID:   line.EmployeeID,
				FirstName:    line.FirstName,
				LastName:     line.LastName,
				ContractType: line.ContractType,
			}
			byEmployee[line.EmployeeID] = summary
		}
		summary.RunCount++
		summary.DaysWorked += line.DaysWorked
		summary.Gross += line.Gross
		summary.Withheld += line.Withheld
		summary.Net += line.Net
	}

	out := make([]MonthlyEmployeeSummary, 0, len(byEmployee))
	for _, summary := range byEmployee {
		if summary.ContractType == "CDDTI" && summary.DaysWorked >= CDDTIMonthlyDayThreshold {
			recomputed := Compute(summary.Gross).EmployeeDeductions()
			summary.Recomputed = recomputed
			summary.Regularization = recomputed - summary.Withheld
			summary.Net = summary.Gross - recomputed
			summary.Regularized = true
		} else {
			summary.Recomputed = summary.Withheld
		}
		out = append(out, *summary)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName == out[j].LastName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].LastName < out[j].LastName
	})
	return out
}
