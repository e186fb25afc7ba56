package workflows

import (
	"context"
	"time"
)

// ScanExpiringContracts emits a contract.expiring event for every active
// fixed-term contract ending within the window. Meant to run daily on the
// jobs scheduler.
func (r *Runner) ScanExpiringContracts(ctx context.Context, window time.Duration) error {
	horizon := time.Now().Add(window)

	rows, err := r.DB.Query(ctx, `
    SELECT c.tenant_id, c.id, c.employee_id, c.contract_type, c.end_date
    FROM contracts c
    JOIN employees e ON e.id = c.employee_id
    WHERE c.status = 'active' AND e.status = 'active'
      AND c.end_date IS NOT NULL AND c.end_date <= $1 AND c.end_date >= now()
  `, horizon)
	if err != nil {
		return err
	}
	defer rows.Close()

	type expiring struct {
		tenantID     string
		contractID   string
		employeeID   string
		contractType string
		endDate      time.Time
	}
	var found []expiring
	for rows.Next() {
		var e expiring
		if err := rows.Scan(&e.tenantID, &e.contractID, &e.employeeID, &e.contractType, &e.endDate); err != nil {
			return err
		}
		found = append(found, e)
	}
	rows.Close()

	for _, e := range found {
		r.Dispatch(ctx, Event{
			TenantID: e.tenantID,
			Type:     EventContractExpiring,
			Payload: map[string]any{
				"employeeId":   e.employeeID,
				"contractId":   e.contractID,
				"contractType": e.contractType,
				"endDate":      e.endDate.Format("2006-01-02"),
				"daysUntilEnd": float64(int(time.Until(e.endDate).Hours() / 24)),
			},
		})
	}
	return nil
}
