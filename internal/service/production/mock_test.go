package production

import (
	"context"

	"github.com/stretchr/testify/mock"
	"ops-costing/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetProductionRecords(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ProductionRecord), args.Error(1)
}

func (m *MockStorage) GetProductionRecord(ctx context.Context, id int64) (storage.ProductionRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.ProductionRecord), args.Error(1)
}

func (m *MockStorage) SaveProductionRecords(ctx context.Context, records []storage.ProductionRecord) ([]int64, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStorage) UpdateProductionRecord(ctx context.Context, r storage.ProductionRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockStorage) GetCostCatalogs(ctx context.Context, lineIDs []int64) (map[int64][]storage.CostEntry, error) {
	args := m.Called(ctx, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]storage.CostEntry), args.Error(1)
}

func (m *MockStorage) GetDailyTotals(ctx context.Context, from, to storage.Date) ([]storage.DailyTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.DailyTotal), args.Error(1)
}

func (m *MockStorage) GetMonthlyTotals(ctx context.Context, from, to storage.Date) ([]storage.MonthlyTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.MonthlyTotal), args.Error(1)
}

func (m *MockStorage) GetLines(ctx context.Context) ([]storage.Line, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Line), args.Error(1)
}

func (m *MockStorage) GetOperators(ctx context.Context, activeOnly bool) ([]storage.Operator, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Operator), args.Error(1)
}
