package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"sirh/internal/domain/audit"
	"sirh/internal/domain/auth"
	"sirh/internal/domain/documents"
	"sirh/internal/domain/employees"
	"sirh/internal/domain/workflows"
	"sirh/internal/transport/http/api"
	"sirh/internal/transport/http/middleware"
	"sirh/internal/transport/http/shared"
)

type Handler struct {
	Employees *employees.Service
	Documents *documents.Service
	Audit     *audit.Recorder
	Runner    *workflows.Runner
	Perms     middleware.PermissionStore
}

func NewHandler(emps *employees.Service, docs *documents.Service, rec *audit.Recorder, runner *workflows.Runner, perms middleware.PermissionStore) *Handler {
	return &Handler{Employees: emps, Documents: docs, Audit: rec, Runner: runner, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/expiring-contracts", h.handleExpiringContracts)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Patch("/{employeeID}/status", h.handleUpdateStatus)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Patch("/{employeeID}/salary", h.handleUpdateSalary)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}/contracts", h.handleListContracts)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/{employeeID}/contracts/renew", h.handleRenewContract)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}/documents", h.handleListDocuments)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/{employeeID}/documents", h.handleGenerateDocument)
	})
	r.Route("/documents", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{documentID}/download", h.handleDownloadDocument)
	})
}

type createPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	CNPSNumber  string `json:"cnpsNumber"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	HireDate    string `json:"hireDate"`
	BaseSalary  int64  `json:"baseSalary"`
	BankAccount string `json:"bankAccount"`

	ContractType string `json:"contractType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason"`
	DailyRate    int64  `json:"dailyRate"`
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

	payload.ContractType = employees.NormalizeContractType(payload.ContractType)

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("contractType", payload.ContractType, employees.ContractTypes, "unknown contract type")
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	startDate, _ := v.Date("startDate", payload.StartDate)
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	in := employees.CreateInput{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		CNPSNumber:   payload.CNPSNumber,
		Department:   payload.Department,
		Position:     payload.Position,
		HireDate:     hireDate,
		BaseSalary:   payload.BaseSalary,
		BankAccount:  payload.BankAccount,
		ContractType: payload.ContractType,
		StartDate:    startDate,
		Reason:       payload.Reason,
		DailyRate:    payload.DailyRate,
	}
	if payload.EndDate != "" {
		endDate, ok := v.Date("endDate", payload.EndDate)
		if !ok {
			v.Reject(w, requestID)
			return
		}
		in.EndDate = &endDate
	}

	if issues := employees.ValidateContract(in.ContractType, in.StartDate, in.EndDate, in.Reason); len(issues) > 0 {
		fields := make([]shared.ValidationIssue, 0, len(issues))
		for _, issue := range issues {
			fields = append(fields, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, requestID, fields)
		return
	}

	id, err := h.Employees.Create(r.Context(), user.TenantID, in)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "employee.create", "employee", id, nil)
	h.Runner.Dispatch(r.Context(), workflows.Event{
		TenantID: user.TenantID,
		Type:     workflows.EventEmployeeHired,
		Payload: map[string]any{
			"employeeId":   id,
			"department":   payload.Department,
			"position":     payload.Position,
			"contractType": payload.ContractType,
			"baseSalary":   float64(payload.BaseSalary),
		},
	})
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	list, total, err := h.Employees.List(r.Context(), user.TenantID,
		r.URL.Query().Get("status"), r.URL.Query().Get("department"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", requestID)
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

	emp, err := h.Employees.Get(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status, employees.Statuses, "unknown status")
	if v.Reject(w, requestID) {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	err := h.Employees.UpdateStatus(r.Context(), user.TenantID, employeeID, payload.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update status", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "employee.status_change", "employee", employeeID,
		map[string]any{"status": payload.Status})
	h.Runner.Dispatch(r.Context(), workflows.Event{
		TenantID: user.TenantID,
		Type:     workflows.EventEmployeeStatusChange,
		Payload:  map[string]any{"employeeId": employeeID, "status": payload.Status},
	})
	api.Success(w, map[string]string{"status": payload.Status}, requestID)
}

type salaryPayload struct {
	BaseSalary int64 `json:"baseSalary"`
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.BaseSalary < 0 {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "baseSalary", Reason: "must not be negative"}})
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	err := h.Employees.UpdateSalary(r.Context(), user.TenantID, employeeID, payload.BaseSalary)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update salary", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "employee.salary_change", "employee", employeeID, nil)
	api.Success(w, map[string]string{"id": employeeID}, requestID)
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	contracts, err := h.Employees.ListContracts(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contracts_list_failed", "failed to list contracts", requestID)
		return
	}
	api.Success(w, contracts, requestID)
}

type renewPayload struct {
	Months int `json:"months"`
}

func (h *Handler) handleRenewContract(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload renewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Months <= 0 {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "months", Reason: "must be positive"}})
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	contractID, err := h.Employees.RenewContract(r.Context(), user.TenantID, employeeID, payload.Months)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "contract_not_found", "no active contract to renew", requestID)
		return
	}
	if errors.Is(err, employees.ErrNotRenewable) {
		api.Fail(w, http.StatusConflict, "contract_not_renewable", "only fixed-term contracts can be renewed", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contract_renew_failed", "failed to renew contract", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "contract.renew", "contract", contractID,
		map[string]any{"months": payload.Months})
	api.Created(w, map[string]string{"contractId": contractID}, requestID)
}

func (h *Handler) handleExpiringContracts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	from, to, err := shared.ParseDateRange(r, 30)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "invalid date range", requestID)
		return
	}
	list, err := h.Employees.ExpiringContracts(r.Context(), user.TenantID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contracts_list_failed", "failed to list expiring contracts", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	list, err := h.Documents.List(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "documents_list_failed", "failed to list documents", requestID)
		return
	}
	api.Success(w, list, requestID)
}

type generateDocumentPayload struct {
	Type string `json:"type"`
}

func (h *Handler) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload generateDocumentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	doc, content, err := h.Documents.GenerateForEmployee(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), payload.Type)
	if errors.Is(err, documents.ErrUnknownType) {
		api.Fail(w, http.StatusBadRequest, "unknown_document_type", "unknown document type", requestID)
		return
	}
	if errors.Is(err, documents.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_generate_failed", "failed to generate document", requestID)
		return
	}

	h.Audit.Record(r.Context(), user.TenantID, user.UserID, "document.generate", "document", doc.ID,
		map[string]any{"type": doc.Type})
	api.Created(w, map[string]any{
		"document": doc,
		"file":     shared.NewFilePayload(doc.FileName, "application/pdf", content),
	}, requestID)
}

func (h *Handler) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	doc, content, err := h.Documents.Content(r.Context(), user.TenantID, chi.URLParam(r, "documentID"))
	if errors.Is(err, documents.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "document_not_found", "document not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_download_failed", "failed to load document", requestID)
		return
	}
	api.Success(w, shared.NewFilePayload(doc.FileName, "application/pdf", content), requestID)
}
