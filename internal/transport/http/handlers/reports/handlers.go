package reportshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/reports"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
	Audit   *audit.Recorder
	Perms   middleware.PermissionStore
}

func NewHandler(svc *reports.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Reports: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/attendance", h.handleAttendance)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/payroll-register/{runID}", h.handlePayrollRegister)
	})
	r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/audit", h.handleAuditLog)
}

func (h *Handler) handleAttendance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	from, to, err := shared.ParseDateRange(r, 30)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "from/to must be valid dates", requestID)
		return
	}
	if to.Before(from) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "to must not precede from", requestID)
		return
	}

	report, err := h.Reports.Attendance(r.Context(), user.TenantID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to build attendance report", requestID)
		return
	}
	api.Success(w, report, requestID)
}

func (h *Handler) handlePayrollRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	runID := chi.URLParam(r, "runID")
	content, fileName, err := h.Reports.PayrollRegister(r.Context(), user.TenantID, runID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to build payroll register", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "report.payroll_register", "payroll_run", runID, nil)
	api.Success(w, shared.NewFilePayload(fileName, "text/csv", content), requestID)
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	entries, err := h.Audit.List(r.Context(), user.TenantID,
		r.URL.Query().Get("entity"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to list audit entries", requestID)
		return
	}
	api.Success(w, entries, requestID)
}
