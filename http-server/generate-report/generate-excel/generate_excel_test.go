package generate_excel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ops-costing/internal/storage"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateExcel(ctx context.Context, from, to storage.Date) ([]byte, error) {
	args := m.Called(ctx, from, to)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func TestGenerateReportExcel(t *testing.T) {
	m := new(MockGenerator)
	m.On("GenerateExcel", mock.Anything, storage.NewDate(2024, 3, 1), storage.NewDate(2024, 3, 31)).
		Return([]byte("PK-xlsx"), nil)

	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), m, time.UTC).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report/excel?from=2024-03-01&to=2024-03-31", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=costing_2024-03-01_2024-03-31.xlsx", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-xlsx", rr.Body.String())
}

func TestGenerateReportExcel_Errors(t *testing.T) {
	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), new(MockGenerator), time.UTC).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report/excel?from=2024-03-01", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	m := new(MockGenerator)
	m.On("GenerateExcel", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	rr = httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), m, time.UTC).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report/excel", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGenerateReportExcel_RangeTooLong(t *testing.T) {
	m := new(MockGenerator)

	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), m, time.UTC).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report/excel?from=1000-01-01&to=9999-12-31", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "GenerateExcel", mock.Anything, mock.Anything, mock.Anything)
}
