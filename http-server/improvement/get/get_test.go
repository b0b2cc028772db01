package get

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/storage"
)

type MockImprovementProvider struct {
	mock.Mock
}

func (m *MockImprovementProvider) Get(ctx context.Context, id int64) (improvement.View, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(improvement.View), args.Error(1)
}

func (m *MockImprovementProvider) List(ctx context.Context, filter storage.ImprovementFilter) ([]improvement.View, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]improvement.View), args.Error(1)
}

func router(m *MockImprovementProvider) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/improvements", ListImprovements(slog.Default(), m))
	r.Get("/api/improvements/{id}", GetImprovement(slog.Default(), m))
	return r
}

func TestGetImprovement(t *testing.T) {
	v := improvement.View{
		Improvement: storage.Improvement{ID: 3, Title: "Быстрая переналадка", Kind: storage.ImprovementKaizen, LineID: 1,
			CostSnapshot: decimal.NewFromInt(2)},
		Impact: costing.Impact{SecondsSavedPerUnit: 10, AnnualSavings: decimal.NewFromInt(600), CostStatus: costing.CostDefined},
	}

	m := new(MockImprovementProvider)
	m.On("Get", mock.Anything, int64(3)).Return(v, nil)
	m.On("Get", mock.Anything, int64(4)).Return(improvement.View{}, fmt.Errorf("x: %w", storage.ErrNotFound))

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/improvements/3", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "kaizen", got["kind"])
	impact := got["impact"].(map[string]any)
	assert.Equal(t, "defined", impact["cost_status"])

	rr = httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/improvements/4", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListImprovements_Filter(t *testing.T) {
	m := new(MockImprovementProvider)
	m.On("List", mock.Anything, storage.ImprovementFilter{LineID: 2, Kind: storage.ImprovementProject}).
		Return([]improvement.View{}, nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/improvements?line_id=2&kind=project", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	m.AssertExpectations(t)
}
