package reports

import "time"

type AttendanceRow struct {
	EmployeeID   string `json:"employeeId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Department   string `json:"department"`
	BusinessDays int    `json:"businessDays"`
	Holidays     int    `json:"holidays"`
	LeaveDays    int    `json:"leaveDays"`
	WorkedDays   int    `json:"workedDays"`
}

type AttendanceReport struct {
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Rows        []AttendanceRow `json:"rows"`
}
