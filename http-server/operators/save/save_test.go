package save

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ops-costing/internal/storage"
)

type MockOperatorCreator struct {
	mock.Mock
}

func (m *MockOperatorCreator) CreateOperator(ctx context.Context, o storage.Operator) (int64, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateOperator(t *testing.T) {
	m := new(MockOperatorCreator)
	m.On("CreateOperator", mock.Anything, mock.MatchedBy(func(o storage.Operator) bool {
		return o.Name == "Петров" && o.LineID != nil && *o.LineID == 2 && o.IsActive
	})).Return(int64(7), nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/operators",
		bytes.NewBufferString(`{"name":"Петров","line_id":2,"is_active":true}`))
	CreateOperator(slog.Default(), m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"status":"created","id":7}`, rr.Body.String())
	m.AssertExpectations(t)
}

func TestCreateOperator_EmptyName(t *testing.T) {
	m := new(MockOperatorCreator)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/operators", bytes.NewBufferString(`{"name":""}`))
	CreateOperator(slog.Default(), m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "CreateOperator", mock.Anything, mock.Anything)
}
