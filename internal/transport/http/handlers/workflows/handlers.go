package workflowshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/workflows"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Workflows *workflows.Service
	Audit     *audit.Recorder
	Perms     middleware.PermissionStore
}

func NewHandler(svc *workflows.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Workflows: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workflows", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermWorkflowsRead, h.Perms)).Get("/rules", h.handleList)
		r.With(middleware.RequirePermission(auth.PermWorkflowsWrite, h.Perms)).Post("/rules", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermWorkflowsRead, h.Perms)).Get("/rules/{ruleID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermWorkflowsWrite, h.Perms)).Put("/rules/{ruleID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermWorkflowsWrite, h.Perms)).Delete("/rules/{ruleID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermWorkflowsRead, h.Perms)).Get("/executions", h.handleExecutions)
		r.With(middleware.RequirePermission(auth.PermWorkflowsRead, h.Perms)).Get("/stats", h.handleStats)
	})
}

type rulePayload struct {
	Name       string                `json:"name"`
	Trigger    string                `json:"trigger"`
	Conditions []workflows.Condition `json:"conditions"`
	Actions    []workflows.Action    `json:"actions"`
	Active     bool                  `json:"active"`
}

func (h *Handler) decodeRule(w http.ResponseWriter, r *http.Request, requestID string) (workflows.Rule, bool) {
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return workflows.Rule{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Enum("trigger", payload.Trigger, workflows.EventTypes, "unknown trigger event")
	if len(payload.Actions) == 0 {
		v.Add("actions", "a rule needs at least one action")
	}
	if v.Reject(w, requestID) {
		return workflows.Rule{}, false
	}

	return workflows.Rule{
		Name:       payload.Name,
		Trigger:    payload.Trigger,
		Conditions: payload.Conditions,
		Actions:    payload.Actions,
		Active:     payload.Active,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	rule, ok := h.decodeRule(w, r, requestID)
	if !ok {
		return
	}

	id, err := h.Workflows.Create(r.Context(), user.TenantID, rule)
	if errors.Is(err, workflows.ErrInvalidInput) {
		api.Fail(w, http.StatusBadRequest, "invalid_rule", err.Error(), requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_create_failed", "failed to create workflow rule", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "workflow.rule.create", "workflow_rule", id,
		map[string]any{"trigger": rule.Trigger})
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	rule, ok := h.decodeRule(w, r, requestID)
	if !ok {
		return
	}
	rule.ID = chi.URLParam(r, "ruleID")

	err := h.Workflows.Update(r.Context(), user.TenantID, rule)
	switch {
	case errors.Is(err, workflows.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "rule_not_found", "workflow rule not found", requestID)
		return
	case errors.Is(err, workflows.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_rule", err.Error(), requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "rule_update_failed", "failed to update workflow rule", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "workflow.rule.update", "workflow_rule", rule.ID, nil)
	api.Success(w, map[string]string{"id": rule.ID}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	ruleID := chi.URLParam(r, "ruleID")
	err := h.Workflows.Delete(r.Context(), user.TenantID, ruleID)
	if errors.Is(err, workflows.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "rule_not_found", "workflow rule not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_delete_failed", "failed to delete workflow rule", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "workflow.rule.delete", "workflow_rule", ruleID, nil)
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	rule, err := h.Workflows.Get(r.Context(), user.TenantID, chi.URLParam(r, "ruleID"))
	if errors.Is(err, workflows.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "rule_not_found", "workflow rule not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_failed", "failed to load workflow rule", requestID)
		return
	}
	api.Success(w, rule, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	rules, err := h.Workflows.List(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rules_failed", "failed to list workflow rules", requestID)
		return
	}
	api.Success(w, rules, requestID)
}

func (h *Handler) handleExecutions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	executions, err := h.Workflows.ListExecutions(r.Context(), user.TenantID,
		r.URL.Query().Get("ruleId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "executions_failed", "failed to list workflow executions", requestID)
		return
	}
	api.Success(w, executions, requestID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	stats, err := h.Workflows.Stats(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to compute workflow stats", requestID)
		return
	}
	api.Success(w, stats, requestID)
}
