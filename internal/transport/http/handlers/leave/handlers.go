package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/leave"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Leave *leave.Service
	Audit *audit.Recorder
	Perms middleware.PermissionStore
}

func NewHandler(svc *leave.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Leave: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/balances/{employeeID}", h.handleBalances)
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	types, err := h.Leave.ListTypes(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to list leave types", requestID)
		return
	}
	api.Success(w, types, requestID)
}

type typePayload struct {
	Name              string `json:"name"`
	IsPaid            bool   `json:"isPaid"`
	AnnualEntitlement int    `json:"annualEntitlement"`
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload typePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.AnnualEntitlement < 0 {
		v.Add("annualEntitlement", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Leave.CreateType(r.Context(), user.TenantID, leave.Type{
		Name:              payload.Name,
		IsPaid:            payload.IsPaid,
		AnnualEntitlement: payload.AnnualEntitlement,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

type requestPayload struct {
	EmployeeID string `json:"employeeId"`
	TypeID     string `json:"leaveTypeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("leaveTypeId", payload.TypeID, "leaveTypeId is required")
	startDate, _ := v.Date("startDate", payload.StartDate)
	endDate, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", startDate, "endDate", endDate)
	if v.Reject(w, requestID) {
		return
	}

	req, err := h.Leave.CreateRequest(r.Context(), user.TenantID, leave.CreateRequestInput{
		EmployeeID: payload.EmployeeID,
		TypeID:     payload.TypeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     payload.Reason,
	})
	if errors.Is(err, leave.ErrEmptyRequest) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "startDate", Reason: "period covers no business day"},
		})
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to file leave request", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "leave.request.create", "leave_request", req.ID,
		map[string]any{"days": req.Days})
	api.Created(w, req, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "leave.request.approve", h.Leave.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "leave.request.reject", h.Leave.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string,
	fn func(ctx context.Context, tenantID, requestID, deciderUserID string) error) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	leaveRequestID := chi.URLParam(r, "requestID")
	err := fn(r.Context(), user.TenantID, leaveRequestID, user.UserID)
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "leave_request_not_found", "leave request not found", requestID)
		return
	case errors.Is(err, leave.ErrNotPending):
		api.Fail(w, http.StatusConflict, "leave_request_decided", "leave request has already been decided", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to record the decision", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, "leave_request", leaveRequestID, nil)
	api.Success(w, map[string]string{"id": leaveRequestID}, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	list, err := h.Leave.ListRequests(r.Context(), user.TenantID,
		r.URL.Query().Get("employeeId"), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year := time.Now().Year()
	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		parsed, err := strconv.Atoi(rawYear)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", requestID)
			return
		}
		year = parsed
	}

	balances, err := h.Leave.Balances(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_balances_failed", "failed to compute leave balances", requestID)
		return
	}
	api.Success(w, map[string]any{"year": year, "balances": balances}, requestID)
}
