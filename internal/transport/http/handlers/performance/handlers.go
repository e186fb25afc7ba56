package performancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/performance"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Performance *performance.Service
	Audit       *audit.Recorder
	Perms       middleware.PermissionStore
}

func NewHandler(perf *performance.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Performance: perf, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/objectives", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/{objectiveID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Put("/{objectiveID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPerformanceApprove, h.Perms)).Post("/{objectiveID}/transition", h.handleTransition)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Patch("/{objectiveID}/progress", h.handleProgress)
	})
}

type objectivePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	Type        string  `json:"type"`
	Weight      int     `json:"weight"`
	TargetValue float64 `json:"targetValue"`
	DueDate     string  `json:"dueDate"`
	OwnerID     string  `json:"ownerId"`
}

func (h *Handler) decodeObjective(w http.ResponseWriter, r *http.Request, requestID string) (performance.Objective, bool) {
	var payload objectivePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return performance.Objective{}, false
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Enum("level", payload.Level, performance.Levels, "unknown objective level")
	v.Enum("type", payload.Type, performance.Types, "unknown objective type")
	v.Range("weight", float64(payload.Weight), 0, 100, "must be between 0 and 100")
	dueDate, _ := v.Date("dueDate", payload.DueDate)
	if v.Reject(w, requestID) {
		return performance.Objective{}, false
	}

	return performance.Objective{
		Title:       payload.Title,
		Description: payload.Description,
		Level:       payload.Level,
		Type:        payload.Type,
		Weight:      payload.Weight,
		TargetValue: payload.TargetValue,
		DueDate:     dueDate,
		OwnerID:     payload.OwnerID,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	obj, ok := h.decodeObjective(w, r, requestID)
	if !ok {
		return
	}

	id, err := h.Performance.Create(r.Context(), user.TenantID, obj)
	if errors.Is(err, performance.ErrInvalidInput) {
		api.Fail(w, http.StatusBadRequest, "invalid_objective", "invalid objective definition", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "objective_create_failed", "failed to create objective", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "objective.create", "objective", id, nil)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	obj, ok := h.decodeObjective(w, r, requestID)
	if !ok {
		return
	}
	obj.ID = chi.URLParam(r, "objectiveID")

	err := h.Performance.Update(r.Context(), user.TenantID, obj)
	switch {
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "objective_not_found", "objective not found", requestID)
		return
	case errors.Is(err, performance.ErrNotEditable):
		api.Fail(w, http.StatusConflict, "objective_locked", "only draft objectives are editable", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "objective_update_failed", "failed to update objective", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "objective.update", "objective", obj.ID, nil)
	api.Success(w, map[string]string{"id": obj.ID}, requestID)
}

type transitionPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload transitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	objectiveID := chi.URLParam(r, "objectiveID")
	err := h.Performance.Transition(r.Context(), user.TenantID, objectiveID, payload.Status)
	switch {
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "objective_not_found", "objective not found", requestID)
		return
	case errors.Is(err, performance.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "objective_invalid_transition", "objective status does not allow this transition", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "objective_transition_failed", "failed to update objective status", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "objective.transition", "objective", objectiveID,
		map[string]any{"status": payload.Status})
	api.Success(w, map[string]string{"id": objectiveID, "status": payload.Status}, requestID)
}

type progressPayload struct {
	CurrentValue float64 `json:"currentValue"`
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload progressPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	objectiveID := chi.URLParam(r, "objectiveID")
	err := h.Performance.UpdateProgress(r.Context(), user.TenantID, objectiveID, payload.CurrentValue)
	switch {
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "objective_not_found", "objective not found", requestID)
		return
	case errors.Is(err, performance.ErrNotInProgress):
		api.Fail(w, http.StatusConflict, "objective_not_in_progress", "progress can only be recorded while in progress", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "objective_progress_failed", "failed to record progress", requestID)
		return
	}
	api.Success(w, map[string]any{"id": objectiveID, "currentValue": payload.CurrentValue}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Performance.List(r.Context(), user.TenantID,
		r.URL.Query().Get("status"), r.URL.Query().Get("level"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "objectives_failed", "failed to list objectives", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	obj, err := h.Performance.Get(r.Context(), user.TenantID, chi.URLParam(r, "objectiveID"))
	if errors.Is(err, performance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "objective_not_found", "objective not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "objective_failed", "failed to load objective", requestID)
		return
	}
	api.Success(w, obj, requestID)
}
