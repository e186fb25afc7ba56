package holidayshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/holidays"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Holidays *holidays.Service
	Audit    *audit.Recorder
	Perms    middleware.PermissionStore
}

func NewHandler(svc *holidays.Service, rec *audit.Recorder, perms middleware.PermissionStore) *Handler {
	return &Handler{Holidays: svc, Audit: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holidays", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermHolidaysRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermHolidaysWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermHolidaysWrite, h.Perms)).Put("/{holidayID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermHolidaysWrite, h.Perms)).Delete("/{holidayID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermHolidaysRead, h.Perms)).Get("/check", h.handleCheck)
	})
}

type holidayPayload struct {
	CountryCode string `json:"countryCode"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring"`
	Paid        bool   `json:"paid"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, requestID string) (holidays.PublicHoliday, bool) {
	var payload holidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return holidays.PublicHoliday{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("countryCode", payload.CountryCode, "countryCode is required")
	if len(payload.CountryCode) != 2 {
		v.Add("countryCode", "must be an ISO-3166 alpha-2 code")
	}
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, requestID) {
		return holidays.PublicHoliday{}, false
	}

	return holidays.PublicHoliday{
		CountryCode: payload.CountryCode,
		Date:        date,
		Name:        payload.Name,
		Description: payload.Description,
		Recurring:   payload.Recurring,
		Paid:        payload.Paid,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	holiday, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}

	id, err := h.Holidays.Create(r.Context(), user.TenantID, holiday)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holiday_create_failed", "failed to create holiday", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "holiday.create", "public_holiday", id, nil)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	holiday, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}
	holiday.ID = chi.URLParam(r, "holidayID")

	err := h.Holidays.Update(r.Context(), user.TenantID, holiday)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "holiday_not_found", "holiday not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holiday_update_failed", "failed to update holiday", requestID)
		return
	}
	api.Success(w, map[string]string{"id": holiday.ID}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	holidayID := chi.URLParam(r, "holidayID")
	err := h.Holidays.Delete(r.Context(), user.TenantID, holidayID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "holiday_not_found", "holiday not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holiday_delete_failed", "failed to delete holiday", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "holiday.delete", "public_holiday", holidayID, nil)
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

// handleList serves either the raw country list or, with ?year=, the list
// materialized into one year.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	country := r.URL.Query().Get("country")
	if country == "" {
		country = "CI"
	}

	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", requestID)
			return
		}
		list, err := h.Holidays.ListForYear(r.Context(), user.TenantID, country, year)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to list holidays", requestID)
			return
		}
		api.Success(w, list, requestID)
		return
	}

	list, err := h.Holidays.ListByCountry(r.Context(), user.TenantID, country)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to list holidays", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	country := r.URL.Query().Get("country")
	if country == "" {
		country = "CI"
	}
	day, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil || day.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date query param is required", requestID)
		return
	}

	isHoliday, err := h.Holidays.IsHolidayOn(r.Context(), user.TenantID, country, day)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to check holiday", requestID)
		return
	}
	api.Success(w, map[string]any{
		"date":      day.Format("2006-01-02"),
		"country":   country,
		"isHoliday": isHoliday,
	}, requestID)
}
