package performance

import "testing"

func TestObjectiveTransitions(t *testing.T) {
	allowed := [][2]string{
		{StatusDraft, StatusProposed},
		{StatusProposed, StatusApproved},
		{StatusApproved, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusDraft, StatusCancelled},
		{StatusInProgress, StatusCancelled},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{StatusDraft, StatusApproved},
		{StatusDraft, StatusInProgress},
		{StatusProposed, StatusInProgress},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusDraft},
		{StatusInProgress, StatusDraft},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestOnlyDraftEditable(t *testing.T) {
	if !Editable(StatusDraft) {
		t.Fatal("expected drafts to be editable")
	}
	for _, status := range []string{StatusProposed, StatusApproved, StatusInProgress, StatusCompleted, StatusCancelled} {
		if Editable(status) {
			t.Fatalf("expected %s to be locked", status)
		}
	}
}
