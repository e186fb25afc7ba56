// Package server assembles the application: database, domain services,
// background queue and the HTTP router. cmd/server runs it; handler tests
// boot it against a test database.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/db"
	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/batch"
	"sirh/internal/domain/documents"
	"sirh/internal/domain/employees"
	"sirh/internal/domain/holidays"
	"sirh/internal/domain/leave"
	"sirh/internal/domain/notifications"
	"sirh/internal/domain/payroll"
	"sirh/internal/domain/performance"
	"sirh/internal/domain/reports"
	"sirh/internal/domain/terminations"
	"sirh/internal/domain/training"
	"sirh/internal/domain/workflows"
	"sirh/internal/platform/config"
	"sirh/internal/platform/crypto"
	"sirh/internal/platform/email"
	"sirh/internal/platform/jobs"
	"sirh/internal/platform/metrics"
	"sirh/internal/transport/http/api"
	authhandler "sirh/internal/transport/http/handlers/auth"
	batchhandler "sirh/internal/transport/http/handlers/batch"
	employeeshandler "sirh/internal/transport/http/handlers/employees"
	holidayshandler "sirh/internal/transport/http/handlers/holidays"
	leavehandler "sirh/internal/transport/http/handlers/leave"
	notificationshandler "sirh/internal/transport/http/handlers/notifications"
	payrollhandler "sirh/internal/transport/http/handlers/payroll"
	performancehandler "sirh/internal/transport/http/handlers/performance"
	reportshandler "sirh/internal/transport/http/handlers/reports"
	terminationshandler "sirh/internal/transport/http/handlers/terminations"
	traininghandler "sirh/internal/transport/http/handlers/training"
	workflowshandler "sirh/internal/transport/http/handlers/workflows"
	"sirh/internal/transport/http/middleware"
)

const tokenTTL = 8 * time.Hour

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
	Queue  *jobs.Queue
}

// New connects, migrates, seeds and wires the full application. Background
// workers run until ctx is cancelled; the caller serves a.Router and calls
// Close when done.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.Default()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	collector := metrics.New()
	mailer := email.New(cfg)

	authStore := auth.NewStore(pool)
	perms := middleware.NewCachedPermissionStore(authStore)

	employeeSvc := employees.NewService(pool, cipher)
	documentSvc := documents.NewService(pool, cfg.DocumentsDir, cipher)
	holidaySvc := holidays.NewService(pool)
	leaveSvc := leave.NewService(pool, holidaySvc)
	payrollSvc := payroll.NewService(pool, employeeSvc)
	terminationSvc := terminations.NewService(pool, employeeSvc, payrollSvc, documentSvc)
	performanceSvc := performance.NewService(pool)
	trainingSvc := training.NewService(pool)
	workflowSvc := workflows.NewService(pool)
	notificationSvc := notifications.NewService(pool, mailer)
	reportSvc := reports.NewService(pool, holidaySvc, payrollSvc)
	batchSvc := batch.NewService(pool)

	recorder := audit.NewRecorder(pool, logger)
	runner := workflows.NewRunner(pool, mailer, cfg.EmailFrom, logger)
	processor := batch.NewProcessor(pool, employeeSvc, documentSvc, logger)

	queue := jobs.NewQueue(pool, logger, collector, cfg.JobQueueSize)
	queue.Start(ctx, 4)
	queue.Every(ctx, cfg.ContractScanEvery, jobs.Job{
		Name: "contracts.scan_expiring",
		Fn: func(ctx context.Context) error {
			return runner.ScanExpiringContracts(ctx, time.Duration(cfg.ContractScanWindow)*24*time.Hour)
		},
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, tokenTTL).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeSvc, documentSvc, recorder, runner, perms).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, queue, runner, recorder, perms).RegisterRoutes(r)
		terminationshandler.NewHandler(terminationSvc, recorder, runner, perms).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, recorder, perms).RegisterRoutes(r)
		holidayshandler.NewHandler(holidaySvc, recorder, perms).RegisterRoutes(r)
		performancehandler.NewHandler(performanceSvc, recorder, perms).RegisterRoutes(r)
		traininghandler.NewHandler(trainingSvc, recorder, perms).RegisterRoutes(r)
		workflowshandler.NewHandler(workflowSvc, recorder, perms).RegisterRoutes(r)
		batchhandler.NewHandler(batchSvc, processor, queue, recorder, perms).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationSvc, recorder, perms).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, recorder, perms).RegisterRoutes(r)
	})

	return &App{Config: cfg, Pool: pool, Router: router, Queue: queue}, nil
}

// Close releases the database pool. Cancel the ctx passed to New first so
// workers drain before the pool goes away.
func (a *App) Close() {
	a.Pool.Close()
}
