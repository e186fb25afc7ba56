package auth

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermPayrollRead        = "payroll.read"
	PermPayrollWrite       = "payroll.write"
	PermPayrollRun         = "payroll.run"
	PermPayrollApprove     = "payroll.approve"
	PermTerminationsRead   = "terminations.read"
	PermTerminationsWrite  = "terminations.write"
	PermPerformanceRead    = "performance.read"
	PermPerformanceWrite   = "performance.write"
	PermPerformanceApprove = "performance.approve"
	PermTrainingRead       = "training.read"
	PermTrainingWrite      = "training.write"
	PermHolidaysRead       = "holidays.read"
	PermHolidaysWrite      = "holidays.write"
	PermLeaveRead          = "leave.read"
	PermLeaveWrite         = "leave.write"
	PermLeaveApprove       = "leave.approve"
	PermWorkflowsRead      = "workflows.read"
	PermWorkflowsWrite     = "workflows.write"
	PermBatchRead          = "batch.read"
	PermBatchWrite         = "batch.write"
	PermAlertsRead         = "alerts.read"
	PermReportsRead        = "reports.read"
	PermAuditRead          = "audit.read"
	PermSystemAdmin        = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollRun,
	PermPayrollApprove,
	PermTerminationsRead,
	PermTerminationsWrite,
	PermPerformanceRead,
	PermPerformanceWrite,
	PermPerformanceApprove,
	PermTrainingRead,
	PermTrainingWrite,
	PermHolidaysRead,
	PermHolidaysWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermWorkflowsRead,
	PermWorkflowsWrite,
	PermBatchRead,
	PermBatchWrite,
	PermAlertsRead,
	PermReportsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermPayrollRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermTrainingRead,
		PermHolidaysRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermAlertsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermPayrollRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceApprove,
		PermTrainingRead,
		PermHolidaysRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAlertsRead,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollRun,
		PermPayrollApprove,
		PermTerminationsRead,
		PermTerminationsWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceApprove,
		PermTrainingRead,
		PermTrainingWrite,
		PermHolidaysRead,
		PermHolidaysWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermWorkflowsRead,
		PermWorkflowsWrite,
		PermBatchRead,
		PermBatchWrite,
		PermAlertsRead,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: DefaultPermissions,
}
