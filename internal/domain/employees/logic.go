package employees

import (
	"strings"
	"time"
)

type ContractIssue struct {
	Field  string
	Reason string
}

// NormalizeContractType maps user input onto the canonical upper-case code.
func NormalizeContractType(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateContract enforces the labor-law constraints on contract terms:
// fixed-term contracts (CDD, CDDTI, STAGE) need an end date after the start
// date, and a CDD needs a substantive reason.
func ValidateContract(contractType string, startDate time.Time, endDate *time.Time, reason string) []ContractIssue {
	contractType = NormalizeContractType(contractType)
	var issues []ContractIssue

	fixedTerm := contractType == ContractCDD || contractType == ContractCDDTI || contractType == ContractStage
	if fixedTerm {
		if endDate == nil {
			issues = append(issues, ContractIssue{Field: "endDate", Reason: "required for " + contractType + " contracts"})
		} else if !endDate.After(startDate) {
			issues = append(issues, ContractIssue{Field: "endDate", Reason: "must be after startDate"})
		}
	} else if endDate != nil {
		issues = append(issues, ContractIssue{Field: "endDate", Reason: "not allowed for CDI contracts"})
	}

	if contractType == ContractCDD && len(strings.TrimSpace(reason)) < MinCDDReasonLen {
		issues = append(issues, ContractIssue{Field: "reason", Reason: "must be at least 10 characters for CDD contracts"})
	}

	return issues
}

// RenewalEndDate extends a fixed-term contract by whole months from its
// current end date.
func RenewalEndDate(currentEnd time.Time, months int) time.Time {
	return currentEnd.AddDate(0, months, 0)
}

// YearsOfService counts completed years between hire and a reference date,
// with the remainder as a fraction of a 365-day year.
func YearsOfService(hireDate, at time.Time) float64 {
	if at.Before(hireDate) {
		return 0
	}
	years := 0
	cursor := hireDate
	for cursor.AddDate(1, 0, 0).Before(at) || cursor.AddDate(1, 0, 0).Equal(at) {
		cursor = cursor.AddDate(1, 0, 0)
		years++
	}
	remainder := at.Sub(cursor).Hours() / 24 / 365
	return float64(years) + remainder
}
