package training

func validPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func validQuarter(quarter int) bool {
	return quarter >= 1 && quarter <= 4
}

// applyBudget fills the advisory over-budget fields from the allocation.
func applyBudget(plan *Plan) {
	if plan.Allocated > plan.Budget {
		plan.OverBudget = true
		plan.Overrun = plan.Allocated - plan.Budget
	}
}
