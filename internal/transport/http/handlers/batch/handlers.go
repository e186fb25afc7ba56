package batchhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/batch"
	"sirh/internal/platform/jobs"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Batch     *batch.Service
	Processor *batch.Processor
	Queue     *jobs.Queue
	Audit     *audit.Recorder
	Perms     middleware.PermissionStore
}

func NewHandler(svc *batch.Service, proc *batch.Processor, queue *jobs.Queue, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Batch: svc, Processor: proc, Queue: queue, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/batch", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermBatchRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermBatchWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermBatchRead, h.Perms)).Get("/{operationID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermBatchWrite, h.Perms)).Post("/{operationID}/cancel", h.handleCancel)
	})
}

type createPayload struct {
	Type        string         `json:"type"`
	Params      map[string]any `json:"params"`
	EmployeeIDs []string       `json:"employeeIds"`
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
	if !batch.ValidType(payload.Type) {
		v.Add("type", "unknown batch operation type")
	}
	if len(payload.EmployeeIDs) == 0 {
		v.Add("employeeIds", "at least one employee is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	opID, err := h.Batch.Create(r.Context(), user.TenantID, user.UserID, batch.Operation{
		Type:        payload.Type,
		Params:      payload.Params,
		EmployeeIDs: payload.EmployeeIDs,
	})
	if errors.Is(err, batch.ErrInvalidInput) {
		api.Fail(w, http.StatusBadRequest, "invalid_operation", "invalid batch operation", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "batch_create_failed", "failed to create batch operation", requestID)
		return
	}

	tenantID := user.TenantID
	err = h.Queue.Enqueue(jobs.Job{
		Name:     "batch.process",
		TenantID: tenantID,
		Fn: func(ctx context.Context) error {
			return h.Processor.Process(ctx, tenantID, opID)
		},
	})
	if errors.Is(err, jobs.ErrQueueFull) {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is saturated, retry later", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "batch_enqueue_failed", "failed to schedule batch operation", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "batch.create", "batch_operation", opID,
		map[string]any{"type": payload.Type, "total": len(payload.EmployeeIDs)})
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{
		Success:   true,
		Data:      map[string]any{"id": opID, "status": batch.StatusPending},
		RequestID: requestID,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	op, err := h.Batch.Get(r.Context(), user.TenantID, chi.URLParam(r, "operationID"))
	if errors.Is(err, batch.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "operation_not_found", "batch operation not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "operation_failed", "failed to load batch operation", requestID)
		return
	}
	api.Success(w, op, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	ops, err := h.Batch.List(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "operations_failed", "failed to list batch operations", requestID)
		return
	}
	api.Success(w, ops, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	opID := chi.URLParam(r, "operationID")
	err := h.Batch.Cancel(r.Context(), user.TenantID, opID)
	switch {
	case errors.Is(err, batch.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "operation_not_found", "batch operation not found", requestID)
		return
	case errors.Is(err, batch.ErrNotCancelable):
		api.Fail(w, http.StatusConflict, "operation_finished", "batch operation already finished", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel batch operation", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "batch.cancel", "batch_operation", opID, nil)
	api.Success(w, map[string]string{"id": opID, "status": "cancel_requested"}, requestID)
}
