package traininghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/training"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Training *training.Service
	Audit    *audit.Recorder
	Perms    middleware.PermissionStore
}

func NewHandler(svc *training.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Training: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/training/plans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/", h.handleListPlans)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/", h.handleCreatePlan)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/{planID}", h.handleGetPlan)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Patch("/{planID}/status", h.handleSetPlanStatus)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/{planID}/items", h.handleListItems)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/{planID}/items", h.handleAddItem)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Put("/{planID}/items/{itemID}", h.handleUpdateItem)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Delete("/{planID}/items/{itemID}", h.handleDeleteItem)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/{planID}/items/{itemID}/complete", h.handleCompleteItem)
	})
}

type planPayload struct {
	Year   int   `json:"year"`
	Budget int64 `json:"budget"`
}

func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload planPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Range("year", float64(payload.Year), 2000, 2100, "must be a plausible year")
	if payload.Budget < 0 {
		v.Add("budget", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Training.CreatePlan(r.Context(), user.TenantID, payload.Year, payload.Budget)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_plan_create_failed", "failed to create training plan", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "training.plan.create", "training_plan", id, nil)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	plans, err := h.Training.ListPlans(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_plans_failed", "failed to list training plans", requestID)
		return
	}
	api.Success(w, plans, requestID)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	plan, err := h.Training.GetPlan(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if errors.Is(err, training.ErrPlanNotFound) {
		api.Fail(w, http.StatusNotFound, "training_plan_not_found", "training plan not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_plan_failed", "failed to load training plan", requestID)
		return
	}
	api.Success(w, plan, requestID)
}

type planStatusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetPlanStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload planStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	planID := chi.URLParam(r, "planID")
	err := h.Training.SetPlanStatus(r.Context(), user.TenantID, planID, payload.Status)
	switch {
	case errors.Is(err, training.ErrPlanNotFound):
		api.Fail(w, http.StatusNotFound, "training_plan_not_found", "training plan not found", requestID)
		return
	case errors.Is(err, training.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown plan status", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "training_plan_failed", "failed to update training plan", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "training.plan.status", "training_plan", planID,
		map[string]any{"status": payload.Status})
	api.Success(w, map[string]string{"id": planID, "status": payload.Status}, requestID)
}

type itemPayload struct {
	Title         string `json:"title"`
	Priority      string `json:"priority"`
	Quarter       int    `json:"quarter"`
	Cost          int64  `json:"cost"`
	Beneficiaries int    `json:"beneficiaries"`
}

func (h *Handler) decodeItem(w http.ResponseWriter, r *http.Request, requestID string) (training.Item, bool) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return training.Item{}, false
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Enum("priority", payload.Priority, []string{training.PriorityLow, training.PriorityMedium, training.PriorityHigh}, "unknown priority")
	v.Range("quarter", float64(payload.Quarter), 1, 4, "must be between 1 and 4")
	if payload.Cost < 0 {
		v.Add("cost", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return training.Item{}, false
	}

	return training.Item{
		Title:         payload.Title,
		Priority:      payload.Priority,
		Quarter:       payload.Quarter,
		Cost:          payload.Cost,
		Beneficiaries: payload.Beneficiaries,
	}, true
}

// budget overruns are surfaced as a warning next to the refreshed plan,
// never as an error.
func planResponse(plan training.Plan, extra map[string]any) map[string]any {
	out := map[string]any{"plan": plan}
	if plan.OverBudget {
		out["warning"] = "allocated amount exceeds the plan budget"
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	item, ok := h.decodeItem(w, r, requestID)
	if !ok {
		return
	}
	item.PlanID = chi.URLParam(r, "planID")

	plan, itemID, err := h.Training.AddItem(r.Context(), user.TenantID, item)
	switch {
	case errors.Is(err, training.ErrPlanNotFound):
		api.Fail(w, http.StatusNotFound, "training_plan_not_found", "training plan not found", requestID)
		return
	case errors.Is(err, training.ErrNotDraft):
		api.Fail(w, http.StatusConflict, "training_plan_locked", "only draft plans accept item changes", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "training_item_failed", "failed to add training item", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "training.item.add", "training_item", itemID, nil)
	api.Created(w, planResponse(plan, map[string]any{"itemId": itemID}), requestID)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	item, ok := h.decodeItem(w, r, requestID)
	if !ok {
		return
	}
	item.PlanID = chi.URLParam(r, "planID")
	item.ID = chi.URLParam(r, "itemID")

	plan, err := h.Training.UpdateItem(r.Context(), user.TenantID, item)
	switch {
	case errors.Is(err, training.ErrPlanNotFound), errors.Is(err, training.ErrItemNotFound):
		api.Fail(w, http.StatusNotFound, "training_item_not_found", "training item not found", requestID)
		return
	case errors.Is(err, training.ErrNotDraft):
		api.Fail(w, http.StatusConflict, "training_plan_locked", "only draft plans accept item changes", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "training_item_failed", "failed to update training item", requestID)
		return
	}
	api.Success(w, planResponse(plan, nil), requestID)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	err := h.Training.DeleteItem(r.Context(), user.TenantID, chi.URLParam(r, "planID"), chi.URLParam(r, "itemID"))
	switch {
	case errors.Is(err, training.ErrPlanNotFound), errors.Is(err, training.ErrItemNotFound):
		api.Fail(w, http.StatusNotFound, "training_item_not_found", "training item not found", requestID)
		return
	case errors.Is(err, training.ErrNotDraft):
		api.Fail(w, http.StatusConflict, "training_plan_locked", "only draft plans accept item changes", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "training_item_failed", "failed to delete training item", requestID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

func (h *Handler) handleCompleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	err := h.Training.CompleteItem(r.Context(), user.TenantID, chi.URLParam(r, "planID"), itemID)
	if errors.Is(err, training.ErrItemNotFound) {
		api.Fail(w, http.StatusNotFound, "training_item_not_found", "training item not found or already settled", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_item_failed", "failed to complete training item", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "training.item.complete", "training_item", itemID, nil)
	api.Success(w, map[string]string{"id": itemID, "status": training.ItemStatusCompleted}, requestID)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	items, err := h.Training.ListItems(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_items_failed", "failed to list training items", requestID)
		return
	}
	api.Success(w, items, requestID)
}
