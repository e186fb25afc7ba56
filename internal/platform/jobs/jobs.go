package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/platform/metrics"
)

var ErrQueueFull = errors.New("job queue is full")

// Job is a unit of background work. The closure carries everything it
// needs; the queue knows nothing about domains.
type Job struct {
	Name     string
	TenantID string
	Fn       func(ctx context.Context) error
}

type Queue struct {
	db      *pgxpool.Pool
	logger  *slog.Logger
	metrics *metrics.Collector
	ch      chan Job
	wg      sync.WaitGroup
}

func NewQueue(db *pgxpool.Pool, logger *slog.Logger, collector *metrics.Collector, size int) *Queue {
	return &Queue{
		db:      db,
		logger:  logger,
		metrics: collector,
		ch:      make(chan Job, size),
	}
}

// Start spins up the workers. They drain the queue until ctx is cancelled.
func (q *Queue) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-q.ch:
					q.run(ctx, job)
				}
			}
		}()
	}
}

// Wait blocks until every worker has exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) Enqueue(job Job) error {
	select {
	case q.ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// RunNow executes the job synchronously with the same bookkeeping as a
// queued run.
func (q *Queue) RunNow(ctx context.Context, job Job) error {
	return q.run(ctx, job)
}

func (q *Queue) run(ctx context.Context, job Job) error {
	started := time.Now()
	err := job.Fn(ctx)
	duration := time.Since(started)

	status := "completed"
	errText := ""
	if err != nil {
		status = "failed"
		errText = err.Error()
		q.logger.Error("job failed", "job", job.Name, "tenant", job.TenantID,
			"duration", duration, "error", err)
	} else {
		q.logger.Info("job completed", "job", job.Name, "tenant", job.TenantID,
			"duration", duration)
	}
	q.metrics.RecordJob(err != nil)

	if _, dbErr := q.db.Exec(ctx, `
    INSERT INTO job_runs (tenant_id, job_name, status, error, duration_ms)
    VALUES (NULLIF($1,'')::uuid,$2,$3,NULLIF($4,''),$5)
  `, job.TenantID, job.Name, status, errText, duration.Milliseconds()); dbErr != nil {
		q.logger.Error("job run not recorded", "job", job.Name, "error", dbErr)
	}
	return err
}

// Every runs the job on a fixed interval until ctx is cancelled. The first
// run happens after one interval.
func (q *Queue) Every(ctx context.Context, interval time.Duration, job Job) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q.run(ctx, job)
			}
		}
	}()
}
