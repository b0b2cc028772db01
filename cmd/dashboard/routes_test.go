package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ops-costing/internal/config"
	generate_excel2 "ops-costing/internal/service/generate-excel"
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage/mysql"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()

	cfg := config.Config{
		DB:          config.DB{Driver: "sqlite", SQLitePath: filepath.Join(dir, "test.db")},
		AdminLogin:  "admin",
		AdminPass:   "secret",
		CORSOrigins: []string{"http://localhost:5173"},
		FrontendDir: filepath.Join(dir, "no-frontend"),
	}

	storage, err := mysql.New(cfg.DB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	prod := production.NewService(storage, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(routes(cfg, log, services{
		storage:     storage,
		production:  prod,
		improvement: improvement.NewService(storage),
		excel:       generate_excel2.NewGenerateService(prod, "₺"),
		loc:         time.UTC,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, admin bool) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.SetBasicAuth("admin", "secret")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

func TestRoutes_AdminRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, http.MethodPost, "/api/admin/lines", `{"code":"L1","name":"Линия 1"}`, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_CostFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodPost, "/api/admin/lines", `{"code":"L1","name":"Линия 1","is_active":true}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = call(t, srv, http.MethodPost, fmt.Sprintf("/api/admin/lines/%d/costs", created.ID),
		`{"valid_from":"2024-01-01","total_cost_per_second":"2"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, srv, http.MethodPost, "/api/production", fmt.Sprintf(`[
		{"kind":"manual","date":"2024-03-05","line_id":%d,"part_code":"P-1","quantity":10,"duration_seconds":30,"recorded_at":"2024-03-05T09:00:00Z"},
		{"kind":"repair","date":"2024-03-05","line_id":%d,"part_code":"P-1","quantity":5,"duration_seconds":60,"recorded_at":"2024-03-05T17:00:00Z"}
	]`, created.ID, created.ID), false)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, srv, http.MethodGet, "/api/production?from=2024-03-01&to=2024-03-31&kind=manual", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var records []struct {
		Cost          string `json:"cost"`
		CostStatus    string `json:"cost_status"`
		ResolvedShift int    `json:"resolved_shift"`
	}
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "600", records[0].Cost)
	assert.Equal(t, "defined", records[0].CostStatus)
	assert.Equal(t, 1, records[0].ResolvedShift)

	resp, body = call(t, srv, http.MethodPut, "/api/totals/daily", `{"date":"2024-03-05","total_production":100}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, srv, http.MethodGet, "/api/report/attribution?from=2024-03-05&to=2024-03-05", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var days []struct {
		ManualPercentage float64 `json:"manual_percentage"`
		RepairPercentage float64 `json:"repair_percentage"`
		Label            string  `json:"label"`
	}
	require.NoError(t, json.Unmarshal(body, &days))
	require.Len(t, days, 1)
	assert.InDelta(t, 10.0, days[0].ManualPercentage, 1e-9)
	assert.InDelta(t, 5.0, days[0].RepairPercentage, 1e-9)
	assert.Equal(t, "measured", days[0].Label)

	resp, _ = call(t, srv, http.MethodGet, "/api/report/excel?from=2024-03-01&to=2024-03-31", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
}

func TestRoutes_ImprovementSnapshot(t *testing.T) {
	srv := newTestServer(t)

	_, body := call(t, srv, http.MethodPost, "/api/admin/lines", `{"code":"L2","name":"Линия 2","is_active":true}`, true)
	var line struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &line))

	call(t, srv, http.MethodPost, fmt.Sprintf("/api/admin/lines/%d/costs", line.ID),
		`{"valid_from":"2024-01-01","total_cost_per_second":"0.5"}`, true)

	resp, body := call(t, srv, http.MethodPost, "/api/improvements", fmt.Sprintf(`{
		"title":"Кондуктор","kind":"project","line_id":%d,"before_seconds":40,"after_seconds":30,
		"annual_quantity":12000,"investment":"30000","snapshot_date":"2024-02-01"}`, line.ID), false)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var v struct {
		ID           int64  `json:"id"`
		CostSnapshot string `json:"cost_snapshot"`
		Impact       struct {
			AnnualSavings string   `json:"annual_savings"`
			PaybackMonths *float64 `json:"payback_months"`
		} `json:"impact"`
	}
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "0.5", v.CostSnapshot)
	assert.Equal(t, "60000", v.Impact.AnnualSavings)
	require.NotNil(t, v.Impact.PaybackMonths)
	assert.InDelta(t, 6.0, *v.Impact.PaybackMonths, 1e-9)

	// новая ставка не меняет уже сохранённый снимок
	call(t, srv, http.MethodPost, fmt.Sprintf("/api/admin/lines/%d/costs", line.ID),
		`{"valid_from":"2024-01-15","total_cost_per_second":"9"}`, true)

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/api/improvements/%d", v.ID), "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "0.5", v.CostSnapshot)
}
