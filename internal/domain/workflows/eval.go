package workflows

import (
	"fmt"
	"strconv"
	"strings"
)

// Match reports whether every condition holds against the event payload.
// A rule without conditions matches every event of its trigger.
func Match(conditions []Condition, payload map[string]any) bool {
	for _, cond := range conditions {
		if !evaluate(cond, payload) {
			return false
		}
	}
	return true
}

func evaluate(cond Condition, payload map[string]any) bool {
	actual, ok := payload[cond.Field]
	if !ok {
		return false
	}

	switch cond.Operator {
	case "eq":
		return asString(actual) == asString(cond.Value)
	case "neq":
		return asString(actual) != asString(cond.Value)
	case "contains":
		return strings.Contains(
			strings.ToLower(asString(actual)),
			strings.ToLower(asString(cond.Value)),
		)
	case "gt", "gte", "lt", "lte":
		left, leftOK := asNumber(actual)
		right, rightOK := asNumber(cond.Value)
		if !leftOK || !rightOK {
			return false
		}
		switch cond.Operator {
		case "gt":
			return left > right
		case "gte":
			return left >= right
		case "lt":
			return left < right
		case "lte":
			return left <= right
		}
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}
