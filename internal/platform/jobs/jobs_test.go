package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"sirh/internal/platform/metrics"
)

func TestEnqueueBackpressure(t *testing.T) {
	q := NewQueue(nil, slog.Default(), metrics.New(), 1)

	noop := Job{Name: "noop", Fn: func(context.Context) error { return nil }}
	if err := q.Enqueue(noop); err != nil {
		t.Fatalf("expected first enqueue to fit, got %v", err)
	}
	if err := q.Enqueue(noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}
