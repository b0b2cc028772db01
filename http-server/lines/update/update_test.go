package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ops-costing/internal/storage"
)

type MockLineUpdateProvider struct {
	mock.Mock
}

func (m *MockLineUpdateProvider) UpdateLine(ctx context.Context, l storage.Line) error {
	return m.Called(ctx, l).Error(0)
}

func TestUpdateLine(t *testing.T) {
	m := new(MockLineUpdateProvider)
	m.On("UpdateLine", mock.Anything, storage.Line{ID: 3, Code: "L3", Name: "Покраска"}).Return(nil)
	m.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l storage.Line) bool { return l.ID == 9 })).Return(storage.ErrNotFound)

	router := chi.NewRouter()
	router.Put("/api/admin/lines/{id}", UpdateLine(slog.Default(), m))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/lines/3", strings.NewReader(`{"code":"L3","name":"Покраска"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/lines/9", strings.NewReader(`{"code":"L9","name":"x"}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/lines/abc", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
