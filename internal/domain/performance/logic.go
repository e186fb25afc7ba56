package performance

var transitions = map[string][]string{
	StatusDraft:      {StatusProposed, StatusCancelled},
	StatusProposed:   {StatusApproved, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether an objective may move between the two
// statuses. Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether the objective's definition may still change.
// Only drafts are editable; progress updates go through UpdateProgress.
func Editable(status string) bool {
	return status == StatusDraft
}

func validLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

func validType(objType string) bool {
	for _, t := range Types {
		if t == objType {
			return true
		}
	}
	return false
}
