package terminationshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/terminations"
	"sirh/internal/domain/workflows"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Terminations *terminations.Service
	Audit        *audit.Recorder
	Runner       *workflows.Runner
	Perms        middleware.PermissionStore
}

func NewHandler(terms *terminations.Service, rec *audit.Recorder, runner *workflows.Runner, perms middleware.PermissionStore) *Handler {
	return &Handler{Terminations: terms, Audit: rec, Runner: runner, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/terminations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTerminationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTerminationsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTerminationsRead, h.Perms)).Get("/{terminationID}", h.handleGet)
	})
}

type createPayload struct {
	EmployeeID      string `json:"employeeId"`
	TerminationDate string `json:"terminationDate"`
	Reason          string `json:"reason"`
	NoticeDays      int    `json:"noticeDays"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Enum("reason", payload.Reason, terminations.Reasons, "unknown termination reason")
	v.Required("reason", payload.Reason, "reason is required")
	date, _ := v.Date("terminationDate", payload.TerminationDate)
	if payload.NoticeDays < 0 {
		v.Add("noticeDays", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	term, err := h.Terminations.Create(r.Context(), user.TenantID, terminations.CreateInput{
		EmployeeID:      payload.EmployeeID,
		TerminationDate: date,
		Reason:          payload.Reason,
		NoticeDays:      payload.NoticeDays,
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	case errors.Is(err, terminations.ErrAlreadyTerminated):
		api.Fail(w, http.StatusConflict, "already_terminated", "employee is already terminated", requestID)
		return
	case errors.Is(err, terminations.ErrBeforeHire):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "terminationDate", Reason: "must not precede the hire date"},
		})
		return
	case errors.Is(err, terminations.ErrInvalidReason):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "reason", Reason: "unknown termination reason"},
		})
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "termination_failed", "failed to record termination", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "termination.create", "termination", term.ID,
		map[string]any{"reason": term.Reason, "severance": term.Severance})
	h.Runner.Dispatch(r.Context(), workflows.Event{
		TenantID: user.TenantID,
		Type:     workflows.EventEmployeeStatusChange,
		Payload: map[string]any{
			"employeeId": term.EmployeeID,
			"status":     "terminated",
			"reason":     term.Reason,
		},
	})
	api.Created(w, term, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	list, total, err := h.Terminations.List(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "terminations_failed", "failed to list terminations", requestID)
		return
	}
	api.Success(w, map[string]any{"items": list, "total": total}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	term, err := h.Terminations.Get(r.Context(), user.TenantID, chi.URLParam(r, "terminationID"))
	if errors.Is(err, terminations.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "termination_not_found", "termination not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "termination_failed", "failed to load termination", requestID)
		return
	}
	api.Success(w, term, requestID)
}
