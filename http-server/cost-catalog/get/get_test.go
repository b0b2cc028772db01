package get

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"ops-costing/internal/storage"
)

type MockCostCatalogProvider struct {
	mock.Mock
}

func (m *MockCostCatalogProvider) GetCostEntries(ctx context.Context, lineID int64) ([]storage.CostEntry, error) {
	args := m.Called(ctx, lineID)
	return args.Get(0).([]storage.CostEntry), args.Error(1)
}

func entries() []storage.CostEntry {
	return []storage.CostEntry{
		{ID: 1, LineID: 2, ValidFrom: storage.NewDate(2024, 1, 1), CostPerSecond: decimal.RequireFromString("2")},
		{ID: 2, LineID: 2, ValidFrom: storage.NewDate(2024, 6, 1), CostPerSecond: decimal.RequireFromString("2.5")},
	}
}

func router(m *MockCostCatalogProvider) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/lines/{id}/costs", GetCostEntries(slog.Default(), m))
	r.Get("/api/lines/{id}/costs/effective", GetEffectiveCost(slog.Default(), m, time.UTC))
	return r
}

func TestGetCostEntries(t *testing.T) {
	m := new(MockCostCatalogProvider)
	m.On("GetCostEntries", mock.Anything, int64(2)).Return(entries(), nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/2/costs", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-01", got[1]["valid_from"])
	assert.Equal(t, "2.5", got[1]["total_cost_per_second"])
}

func TestGetEffectiveCost(t *testing.T) {
	m := new(MockCostCatalogProvider)
	m.On("GetCostEntries", mock.Anything, int64(2)).Return(entries(), nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/2/costs/effective?date=2024-07-01", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp EffectiveCostResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Entry)
	assert.Equal(t, int64(2), resp.Entry.ID)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "defined", string(resp.CostStatus))

	rr = httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/2/costs/effective?date=2023-01-01", nil))

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Entry.ID)
	assert.True(t, resp.Fallback)
}

func TestGetEffectiveCost_EmptyCatalog(t *testing.T) {
	m := new(MockCostCatalogProvider)
	m.On("GetCostEntries", mock.Anything, int64(5)).Return([]storage.CostEntry{}, nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/5/costs/effective?date=2024-07-01", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"date":"2024-07-01","entry":null,"fallback":false,"cost_status":"undefined"}`, rr.Body.String())
}

func TestGetEffectiveCost_TodayInPlantZone(t *testing.T) {
	// между UTC+14 и UTC-12 всегда разные календарные дни
	east := time.FixedZone("east", 14*60*60)
	west := time.FixedZone("west", -12*60*60)

	for _, loc := range []*time.Location{east, west} {
		m := new(MockCostCatalogProvider)
		m.On("GetCostEntries", mock.Anything, int64(2)).Return(entries(), nil)

		r := chi.NewRouter()
		r.Get("/api/lines/{id}/costs/effective", GetEffectiveCost(slog.Default(), m, loc))

		before := time.Now().In(loc).Format(storage.DateLayout)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/2/costs/effective", nil))
		after := time.Now().In(loc).Format(storage.DateLayout)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp EffectiveCostResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, []string{before, after}, resp.Date.String(), loc.String())
	}
}

func TestGetEffectiveCost_BadDate(t *testing.T) {
	rr := httptest.NewRecorder()
	router(new(MockCostCatalogProvider)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines/5/costs/effective?date=01.07.2024", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
