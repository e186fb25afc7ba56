package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sirh/internal/app/server"
	"sirh/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		SeedTenantName:     "Tenant de test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		SeedHolidayCountry: "CI",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		MigrationsDir:      "../../../../migrations",
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		DocumentsDir:       t.TempDir(),
		JobQueueSize:       32,
		ContractScanEvery:  time.Hour,
		ContractScanWindow: 30,
	}
}

func TestHRLeaveAndPayrollJourney(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := server.New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// The permission middleware rejects anonymous access before the handler.
	resp := doRequest(t, client, http.MethodGet, ts.URL+"/api/v1/employees", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)

	leaveTypeID := createLeaveType(t, client, ts.URL, token)
	requestID := createLeaveRequest(t, client, ts.URL, token, employeeID, leaveTypeID)
	approveLeaveRequest(t, client, ts.URL, token, requestID)

	balances := listLeaveBalances(t, client, ts.URL, token, employeeID, 2026)
	found := false
	for _, b := range balances {
		if b.TypeID == leaveTypeID {
			found = true
			if b.Taken != 5 {
				t.Fatalf("expected 5 business days taken, got %d", b.Taken)
			}
			if b.Remaining != b.Entitlement-5 {
				t.Fatalf("expected remaining %d, got %d", b.Entitlement-5, b.Remaining)
			}
		}
	}
	if !found {
		t.Fatal("expected a balance entry for the requested leave type")
	}

	runID := createPayrollRun(t, client, ts.URL, token)
	status := calculateRun(t, client, ts.URL, token, runID)
	if status != "calculated" {
		t.Fatalf("expected run status calculated, got %s", status)
	}

	slips := listPayslips(t, client, ts.URL, token, runID)
	if len(slips) == 0 {
		t.Fatal("expected at least one payslip after calculation")
	}
	for _, slip := range slips {
		if slip.EmployeeID != employeeID {
			continue
		}
		if slip.Gross <= 0 || slip.Net <= 0 || slip.Net >= slip.Gross {
			t.Fatalf("implausible payslip amounts: gross=%d net=%d", slip.Gross, slip.Net)
		}
	}
}

func TestEmployeeValidationRejected(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := server.New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// Missing email and a CDD without a reason must both be rejected.
	resp := doRequest(t, client, http.MethodPost, ts.URL+"/api/v1/employees", token, map[string]any{
		"firstName":    "Awa",
		"lastName":     "Traoré",
		"contractType": "cdd",
		"hireDate":     "2026-01-05",
		"startDate":    "2026-01-05",
		"baseSalary":   250000,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid employee payload, got %d", resp.StatusCode)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var out struct {
		Token string `json:"token"`
	}
	decodeData(t, resp, &out)
	if out.Token == "" {
		t.Fatal("expected a token in the login response")
	}
	return out.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/employees", token, map[string]any{
		"firstName":    "Aminata",
		"lastName":     "Koné",
		"email":        email,
		"cnpsNumber":   "CNPS-123456",
		"department":   "Finance",
		"position":     "Comptable",
		"hireDate":     "2024-01-15",
		"baseSalary":   400000,
		"contractType": "cdi",
		"startDate":    "2024-01-15",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create employee failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}
	return decodeID(t, resp)
}

func createLeaveType(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/leave/types", token, map[string]any{
		"name":              fmt.Sprintf("Congés exceptionnels %d", time.Now().UnixNano()),
		"isPaid":            true,
		"annualEntitlement": 10,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create leave type failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}
	return decodeID(t, resp)
}

func createLeaveRequest(t *testing.T, client *http.Client, baseURL, token, employeeID, typeID string) string {
	t.Helper()

	// Monday through Friday, no seeded holiday in the window.
	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/leave/requests", token, map[string]any{
		"employeeId":  employeeID,
		"leaveTypeId": typeID,
		"startDate":   "2026-03-02",
		"endDate":     "2026-03-06",
		"reason":      "Raison familiale",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create leave request failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var out struct {
		ID   string `json:"id"`
		Days int    `json:"days"`
	}
	decodeData(t, resp, &out)
	if out.Days != 5 {
		t.Fatalf("expected 5 business days, got %d", out.Days)
	}
	return out.ID
}

func approveLeaveRequest(t *testing.T, client *http.Client, baseURL, token, requestID string) {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/leave/requests/"+requestID+"/approve", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve leave request failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}

	// A second decision on the same request must conflict.
	again := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/leave/requests/"+requestID+"/reject", token, nil)
	defer again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on double decision, got %d", again.StatusCode)
	}
}

type balanceEntry struct {
	TypeID      string `json:"leaveTypeId"`
	Entitlement int    `json:"entitlement"`
	Taken       int    `json:"taken"`
	Remaining   int    `json:"remaining"`
}

func listLeaveBalances(t *testing.T, client *http.Client, baseURL, token, employeeID string, year int) []balanceEntry {
	t.Helper()

	url := fmt.Sprintf("%s/api/v1/leave/balances/%s?year=%d", baseURL, employeeID, year)
	resp := doRequest(t, client, http.MethodGet, url, token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list balances failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var out struct {
		Balances []balanceEntry `json:"balances"`
	}
	decodeData(t, resp, &out)
	return out.Balances
}

func createPayrollRun(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/payroll/runs", token, map[string]any{
		"periodStart": "2026-03-01",
		"periodEnd":   "2026-03-31",
		"payDate":     "2026-04-05",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create payroll run failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}
	return decodeID(t, resp)
}

// calculateRun enqueues the calculation then polls the run until it leaves
// the calculating state, the way the UI does.
func calculateRun(t *testing.T, client *http.Client, baseURL, token, runID string) string {
	t.Helper()

	resp := doRequest(t, client, http.MethodPost, baseURL+"/api/v1/payroll/runs/"+runID+"/calculate", token, nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("calculate failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}
	resp.Body.Close()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp := doRequest(t, client, http.MethodGet, baseURL+"/api/v1/payroll/runs/"+runID, token, nil)
		var run struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		decodeData(t, resp, &run)
		resp.Body.Close()

		switch run.Status {
		case "calculated":
			return run.Status
		case "failed":
			t.Fatalf("payroll run failed: %s", run.Error)
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("payroll run did not finish calculating in time")
	return ""
}

type payslipEntry struct {
	EmployeeID string `json:"employeeId"`
	Gross      int64  `json:"gross"`
	Net        int64  `json:"net"`
}

func listPayslips(t *testing.T, client *http.Client, baseURL, token, runID string) []payslipEntry {
	t.Helper()

	resp := doRequest(t, client, http.MethodGet, baseURL+"/api/v1/payroll/runs/"+runID+"/payslips", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list payslips failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var slips []payslipEntry
	decodeData(t, resp, &slips)
	return slips
}

func doRequest(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func decodeID(t *testing.T, resp *http.Response) string {
	t.Helper()

	var out struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &out)
	if out.ID == "" {
		t.Fatal("expected an id in the response")
	}
	return out.ID
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(raw)
}
