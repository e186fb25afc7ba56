package notificationshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/notifications"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Notifications *notifications.Service
	Audit         *audit.Recorder
	Perms         middleware.PermissionStore
}

func NewHandler(svc *notifications.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Notifications: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAlertsRead, h.Perms)).Get("/", h.handleListAlerts)
		r.With(middleware.RequirePermission(auth.PermAlertsRead, h.Perms)).Post("/{alertID}/read", h.handleMarkAlertRead)
	})
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleListNotifications)
		r.Post("/{notificationID}/read", h.handleMarkNotificationRead)
	})
	r.Route("/settings/email", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Get("/", h.handleGetEmailSettings)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Put("/", h.handleUpdateEmailSettings)
	})
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	alerts, err := h.Notifications.ListAlerts(r.Context(), user.TenantID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "alerts_failed", "failed to list alerts", requestID)
		return
	}
	api.Success(w, alerts, requestID)
}

func (h *Handler) handleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	alertID := chi.URLParam(r, "alertID")
	err := h.Notifications.MarkAlertRead(r.Context(), user.TenantID, alertID)
	if errors.Is(err, notifications.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "alert_not_found", "alert not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "alert_update_failed", "failed to mark alert read", requestID)
		return
	}
	api.Success(w, map[string]string{"id": alertID}, requestID)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Notifications.ListNotifications(r.Context(), user.TenantID, user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_failed", "failed to list notifications", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	notificationID := chi.URLParam(r, "notificationID")
	err := h.Notifications.MarkNotificationRead(r.Context(), user.TenantID, user.UserID, notificationID)
	if errors.Is(err, notifications.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "notification_not_found", "notification not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to mark notification read", requestID)
		return
	}
	api.Success(w, map[string]string{"id": notificationID}, requestID)
}

func (h *Handler) handleGetEmailSettings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	settings, err := h.Notifications.GetEmailSettings(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_failed", "failed to load email settings", requestID)
		return
	}
	api.Success(w, settings, requestID)
}

type emailSettingsPayload struct {
	Enabled     bool   `json:"enabled"`
	FromAddress string `json:"fromAddress"`
}

func (h *Handler) handleUpdateEmailSettings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload emailSettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Enabled && payload.FromAddress == "" {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "fromAddress", Reason: "required when email is enabled"},
		})
		return
	}

	err := h.Notifications.UpdateEmailSettings(r.Context(), user.TenantID, notifications.EmailSettings{
		Enabled:     payload.Enabled,
		FromAddress: payload.FromAddress,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update email settings", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "settings.email.update", "tenant", user.TenantID,
		map[string]any{"enabled": payload.Enabled})
	api.Success(w, payload, requestID)
}
