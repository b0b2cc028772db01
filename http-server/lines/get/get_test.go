package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ops-costing/internal/storage"
)

type MockLinesProvider struct {
	mock.Mock
}

func (m *MockLinesProvider) GetLines(ctx context.Context) ([]storage.Line, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Line), args.Error(1)
}

func TestGetLines(t *testing.T) {
	m := new(MockLinesProvider)
	m.On("GetLines", mock.Anything).Return([]storage.Line{{ID: 1, Code: "L1", Name: "Сборка", IsActive: true}}, nil)

	rr := httptest.NewRecorder()
	GetLines(slog.Default(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"code":"L1","name":"Сборка","is_active":true}]`, rr.Body.String())
	m.AssertExpectations(t)
}

func TestGetLines_Error(t *testing.T) {
	m := new(MockLinesProvider)
	m.On("GetLines", mock.Anything).Return(nil, errors.New("db down"))

	rr := httptest.NewRecorder()
	GetLines(slog.Default(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lines", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
