package generate_excel

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage"
)

type MockReportSource struct {
	mock.Mock
}

func (m *MockReportSource) Records(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionCost, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ProductionCost), args.Error(1)
}

func (m *MockReportSource) DailyAttribution(ctx context.Context, from, to storage.Date) ([]production.DayAttribution, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.DayAttribution), args.Error(1)
}

func (m *MockReportSource) Top(ctx context.Context, p production.TopParams) ([]production.TopGroup, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.TopGroup), args.Error(1)
}

func (m *MockReportSource) Lines(ctx context.Context) (map[int64]storage.Line, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]storage.Line), args.Error(1)
}

func TestGenerateExcel(t *testing.T) {
	src := new(MockReportSource)
	from, to := storage.NewDate(2024, 7, 1), storage.NewDate(2024, 7, 31)

	src.On("Records", mock.Anything, storage.ProductionFilter{From: from, To: to}).Return([]storage.ProductionCost{
		{
			ProductionRecord: storage.ProductionRecord{Kind: storage.KindManual, Date: from, LineID: 1, PartCode: "P-1", Quantity: 100, DurationSeconds: 30},
			CostPerSecond:    decimal.RequireFromString("2.5"),
			Cost:             decimal.NewFromInt(7500),
			CostStatus:       "defined",
			ResolvedShift:    1,
		},
		{
			ProductionRecord: storage.ProductionRecord{Kind: storage.KindRepair, Date: from, LineID: 2, Quantity: 4},
			Cost:             decimal.Zero,
			CostStatus:       "undefined",
		},
	}, nil)

	src.On("DailyAttribution", mock.Anything, from, to).Return([]production.DayAttribution{
		{
			Date:           from,
			ManualQuantity: 250,
			RepairQuantity: 50,
			ManualCost:     decimal.NewFromInt(1250),
			RepairCost:     decimal.Zero,
			Attribution:    costing.Attribution{ManualPercentage: 25, RepairPercentage: 5, Source: costing.SourceDaily},
			Label:          "measured",
		},
	}, nil)

	ppm := 5000.0
	src.On("Top", mock.Anything, mock.MatchedBy(func(p production.TopParams) bool {
		return p.GroupBy == production.GroupLine && p.Limit == topLinesLimit
	})).Return([]production.TopGroup{
		{Group: costing.Group[string]{Key: "L1", Count: 1, Sum: map[string]float64{"cost": 7500, "quantity": 100}}, PPM: &ppm},
	}, nil)

	src.On("Lines", mock.Anything).Return(map[int64]storage.Line{1: {ID: 1, Code: "L1"}}, nil)

	svc := NewGenerateService(src, "₺")

	data, err := svc.GenerateExcel(context.Background(), from, to)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetProduction, sheetAttribution, sheetTopLines}, f.GetSheetList())

	v, _ := f.GetCellValue(sheetProduction, "K2")
	assert.Equal(t, "7500.00 ₺", v)
	v, _ = f.GetCellValue(sheetProduction, "K3")
	assert.Equal(t, undefinedCost, v)
	v, _ = f.GetCellValue(sheetProduction, "B3")
	assert.Equal(t, "ремонт", v)

	// линия подписана так же, как на листе топа
	v, _ = f.GetCellValue(sheetProduction, "C2")
	assert.Equal(t, "L1", v)
	v, _ = f.GetCellValue(sheetProduction, "C3")
	assert.Equal(t, "#2", v)

	v, _ = f.GetCellValue(sheetAttribution, "F2")
	assert.Equal(t, "daily", v)
	v, _ = f.GetCellValue(sheetAttribution, "H2")
	assert.Equal(t, "1250.00 ₺", v)

	v, _ = f.GetCellValue(sheetTopLines, "A2")
	assert.Equal(t, "L1", v)
	v, _ = f.GetCellValue(sheetTopLines, "E2")
	assert.Equal(t, "5000", v)
}

func TestGenerateExcel_SourceError(t *testing.T) {
	src := new(MockReportSource)
	src.On("Records", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewGenerateService(src, "₺").GenerateExcel(context.Background(), storage.Date{}, storage.Date{})
	assert.ErrorContains(t, err, "db down")
}
