package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/storage"
)

type Storage interface {
	GetProductionRecords(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionRecord, error)
	GetProductionRecord(ctx context.Context, id int64) (storage.ProductionRecord, error)
	SaveProductionRecords(ctx context.Context, records []storage.ProductionRecord) ([]int64, error)
	UpdateProductionRecord(ctx context.Context, r storage.ProductionRecord) error

	GetCostCatalogs(ctx context.Context, lineIDs []int64) (map[int64][]storage.CostEntry, error)
	GetDailyTotals(ctx context.Context, from, to storage.Date) ([]storage.DailyTotal, error)
	GetMonthlyTotals(ctx context.Context, from, to storage.Date) ([]storage.MonthlyTotal, error)
	GetLines(ctx context.Context) ([]storage.Line, error)
	GetOperators(ctx context.Context, activeOnly bool) ([]storage.Operator, error)
}

type Service struct {
	storage Storage
	loc     *time.Location
	now     func() time.Time
}

func NewService(storage Storage, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{storage: storage, loc: loc, now: time.Now}
}

// SaveRecords сохраняет пачку записей под общим batch_id. Смена берётся из
// записи, если она 1..3, иначе определяется по recorded_at в поясе завода.
func (s *Service) SaveRecords(ctx context.Context, records []storage.ProductionRecord) (string, []int64, error) {
	const op = "service.production.SaveRecords"

	if len(records) == 0 {
		return "", nil, fmt.Errorf("%s: пустой список записей: %w", op, costing.ErrInvalidInput)
	}

	batchID := uuid.NewString()

	for i := range records {
		if err := checkRecord(records[i]); err != nil {
			return "", nil, fmt.Errorf("%s: запись №%d: %w", op, i+1, err)
		}
		records[i].BatchID = batchID
		s.normalize(&records[i])
	}

	ids, err := s.storage.SaveProductionRecords(ctx, records)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	return batchID, ids, nil
}

// UpdateRecord полностью перезаписывает изменяемые поля; batch_id остаётся прежним.
func (s *Service) UpdateRecord(ctx context.Context, r storage.ProductionRecord) error {
	const op = "service.production.UpdateRecord"

	if err := checkRecord(r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.normalize(&r)

	if err := s.storage.UpdateProductionRecord(ctx, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) normalize(r *storage.ProductionRecord) {
	if r.RecordedAt == nil {
		now := s.now().UTC()
		r.RecordedAt = &now
	}

	shift := s.resolveShift(*r)
	if shift.Valid() {
		v := int(shift)
		r.Shift = &v
	} else {
		r.Shift = nil
	}
}

func (s *Service) resolveShift(r storage.ProductionRecord) costing.Shift {
	stored := 0
	if r.Shift != nil {
		stored = *r.Shift
	}

	var ts time.Time
	if r.RecordedAt != nil {
		ts = r.RecordedAt.In(s.loc)
	}

	return costing.ResolveShift(stored, ts)
}

func checkRecord(r storage.ProductionRecord) error {
	switch {
	case r.Kind != storage.KindManual && r.Kind != storage.KindRepair:
		return fmt.Errorf("неизвестный вид записи %q: %w", r.Kind, costing.ErrInvalidInput)
	case r.Date.IsZero():
		return fmt.Errorf("не указана дата: %w", costing.ErrInvalidInput)
	case r.LineID <= 0:
		return fmt.Errorf("не указана линия: %w", costing.ErrInvalidInput)
	case r.Quantity < 0 || r.Scrap < 0 || r.DurationSeconds < 0:
		return fmt.Errorf("отрицательные количество, брак или длительность: %w", costing.ErrInvalidInput)
	}
	return nil
}

// Records возвращает записи с посчитанной стоимостью на дату каждой записи.
func (s *Service) Records(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionCost, error) {
	const op = "service.production.Records"

	var lineIDs []int64
	if filter.LineID != 0 {
		lineIDs = []int64{filter.LineID}
	}

	var (
		records  []storage.ProductionRecord
		catalogs map[int64][]storage.CostEntry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.storage.GetProductionRecords(gCtx, filter)
		if err != nil {
			return fmt.Errorf("records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		catalogs, err = s.storage.GetCostCatalogs(gCtx, lineIDs)
		if err != nil {
			return fmt.Errorf("catalogs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.withCosts(records, catalogs), nil
}

func (s *Service) withCosts(records []storage.ProductionRecord, catalogs map[int64][]storage.CostEntry) []storage.ProductionCost {
	converted := make(map[int64][]costing.CostEntry, len(catalogs))
	for lineID, entries := range catalogs {
		converted[lineID] = toCatalog(entries)
	}

	result := make([]storage.ProductionCost, 0, len(records))

	for _, r := range records {
		item := storage.ProductionCost{
			ProductionRecord: r,
			Cost:             decimal.Zero,
			ResolvedShift:    s.resolveShift(r),
		}

		entry, err := costing.ResolveCost(converted[r.LineID], r.Date.Time)
		if err == nil {
			item.CostPerSecond = entry.TotalCostPerSecond
			item.Cost, err = costing.CalculateCost(
				decimal.NewFromInt(r.Quantity),
				decimal.NewFromFloat(r.DurationSeconds),
				entry.TotalCostPerSecond,
			)
		}
		item.CostStatus = string(costing.StatusOf(err))

		result = append(result, item)
	}

	return result
}

func toCatalog(entries []storage.CostEntry) []costing.CostEntry {
	out := make([]costing.CostEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, costing.CostEntry{ValidFrom: e.ValidFrom.Time, TotalCostPerSecond: e.CostPerSecond})
	}
	return out
}

// EffectiveCost: запись справочника линии на дату и признак fallback.
func EffectiveCost(entries []storage.CostEntry, at storage.Date) (storage.CostEntry, bool, error) {
	if len(entries) == 0 {
		return storage.CostEntry{}, false, fmt.Errorf("справочник стоимости пуст: %w", costing.ErrNoData)
	}

	res, err := costing.Resolve(toCatalog(entries), at.Time)
	if err != nil {
		return storage.CostEntry{}, false, err
	}

	// ответу нужен id записи, поэтому берём исходную
	var found storage.CostEntry
	for _, e := range entries {
		if e.ValidFrom.Equal(storage.DateOf(res.Entry.ValidFrom).Time) && e.CostPerSecond.Equal(res.Entry.TotalCostPerSecond) {
			found = e
		}
	}

	return found, res.Fallback, nil
}
