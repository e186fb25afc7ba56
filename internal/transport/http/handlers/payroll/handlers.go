package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/payroll"
	"sirh/internal/domain/workflows"
	"sirh/internal/platform/jobs"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Payroll *payroll.Service
	Queue   *jobs.Queue
	Runner  *workflows.Runner
	Audit   *audit.Recorder
	Perms   middleware.PermissionStore
}

func NewHandler(pay *payroll.Service, queue *jobs.Queue, runner *workflows.Runner, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Payroll: pay, Queue: queue, Runner: runner, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/runs", h.handleCreateRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/runs/{runID}/inputs", h.handleSetDaysWorked)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/runs/{runID}/calculate", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/runs/{runID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/runs/{runID}/pay", h.handleMarkPaid)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}/payslips", h.handleListPayslips)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/summary", h.handleMonthlySummary)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/export/cnps", h.handleExportCNPS)
	})
}

type createRunPayload struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	PayDate     string `json:"payDate"`
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	periodStart, _ := v.Date("periodStart", payload.PeriodStart)
	periodEnd, _ := v.Date("periodEnd", payload.PeriodEnd)
	payDate, _ := v.Date("payDate", payload.PayDate)
	v.DateOrder("periodStart", periodStart, "periodEnd", periodEnd)
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Payroll.CreateRun(r.Context(), user.TenantID, periodStart, periodEnd, payDate)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_create_failed", "failed to create payroll run", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "payroll.run.create", "payroll_run", id, nil)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	runs, total, err := h.Payroll.ListRuns(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", requestID)
		return
	}
	api.Success(w, map[string]any{"items": runs, "total": total}, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	run, err := h.Payroll.GetRun(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll run", requestID)
		return
	}
	api.Success(w, run, requestID)
}

type daysWorkedPayload struct {
	EmployeeID string `json:"employeeId"`
	Days       int    `json:"days"`
}

func (h *Handler) handleSetDaysWorked(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload daysWorkedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Range("days", float64(payload.Days), 0, 31, "must be between 0 and 31")
	if v.Reject(w, requestID) {
		return
	}

	err := h.Payroll.SetDaysWorked(r.Context(), user.TenantID, chi.URLParam(r, "runID"), payload.EmployeeID, payload.Days)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if errors.Is(err, payroll.ErrInvalidTransition) {
		api.Fail(w, http.StatusConflict, "payroll_run_locked", "run inputs are only editable before calculation", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_input_failed", "failed to record days worked", requestID)
		return
	}
	api.Success(w, map[string]any{"employeeId": payload.EmployeeID, "days": payload.Days}, requestID)
}

// handleCalculate enqueues the calculation. The UI polls the run status
// through the draft -> calculating -> calculated lifecycle.
func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	runID := chi.URLParam(r, "runID")
	run, err := h.Payroll.GetRun(r.Context(), user.TenantID, runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll run", requestID)
		return
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusCalculating) {
		api.Fail(w, http.StatusConflict, "payroll_invalid_transition", "run cannot be calculated from its current status", requestID)
		return
	}

	tenantID := user.TenantID
	err = h.Queue.Enqueue(jobs.Job{
		Name:     "payroll.calculate",
		TenantID: tenantID,
		Fn: func(ctx context.Context) error {
			if err := h.Payroll.Calculate(ctx, tenantID, runID); err != nil {
				return err
			}
			calculated, err := h.Payroll.GetRun(ctx, tenantID, runID)
			if err != nil {
				return err
			}
			h.Runner.Dispatch(ctx, workflows.Event{
				TenantID: tenantID,
				Type:     workflows.EventPayrollRunCalculated,
				Payload: map[string]any{
					"runId":         runID,
					"totalGross":    float64(calculated.TotalGross),
					"totalNet":      float64(calculated.TotalNet),
					"employeeCount": float64(calculated.EmployeeCount),
				},
			})
			return nil
		},
	})
	if errors.Is(err, jobs.ErrQueueFull) {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "background queue is full, retry later", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_calculate_failed", "failed to schedule calculation", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "payroll.run.calculate", "payroll_run", runID, nil)
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{
		Success:   true,
		Data:      map[string]string{"id": runID, "status": payroll.RunStatusCalculating},
		RequestID: requestID,
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "payroll.run.approve", h.Payroll.Approve)
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "payroll.run.pay", h.Payroll.MarkPaid)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, string, string) error) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	runID := chi.URLParam(r, "runID")
	err := fn(r.Context(), user.TenantID, runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if errors.Is(err, payroll.ErrInvalidTransition) {
		api.Fail(w, http.StatusConflict, "payroll_invalid_transition", "run status does not allow this action", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_transition_failed", "failed to update payroll run", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, "payroll_run", runID, nil)
	api.Success(w, map[string]string{"id": runID}, requestID)
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	slips, err := h.Payroll.ListPayslips(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", requestID)
		return
	}
	api.Success(w, slips, requestID)
}

func (h *Handler) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year, month, ok := yearMonth(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year and month query params are required", requestID)
		return
	}

	summary, err := h.Payroll.MonthlySummary(r.Context(), user.TenantID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to build monthly summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleExportCNPS(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year, month, ok := yearMonth(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year and month query params are required", requestID)
		return
	}

	content, fileName, err := h.Payroll.ExportCNPSMonthly(r.Context(), user.TenantID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cnps_export_failed", "failed to build CNPS export", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "payroll.export.cnps", "payroll_export", "",
		map[string]any{"year": year, "month": month})
	api.Success(w, shared.NewFilePayload(fileName, xlsxContentType, content), requestID)
}

func yearMonth(r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
