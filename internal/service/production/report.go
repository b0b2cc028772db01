package production

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/storage"
)

var ErrUnknownGroup = errors.New("неизвестная группировка")

const (
	GroupLine     = "line"
	GroupPart     = "part"
	GroupOperator = "operator"
	GroupMonth    = "month"
	GroupShift    = "shift"
	GroupKind     = "kind"
)

const (
	FieldQuantity = "quantity"
	FieldScrap    = "scrap"
	FieldDuration = "duration"
	FieldCost     = "cost"
)

// DayAttribution: строка дневного отчёта по ручным и ремонтным изделиям.
type DayAttribution struct {
	Date           storage.Date    `json:"date"`
	ManualQuantity float64         `json:"manual_quantity"`
	RepairQuantity float64         `json:"repair_quantity"`
	ManualCost     decimal.Decimal `json:"manual_cost"`
	RepairCost     decimal.Decimal `json:"repair_cost"`
	// UndefinedCosts: записи, для которых стоимость не посчитана.
	UndefinedCosts int `json:"undefined_costs"`

	costing.Attribution
	Label string `json:"label"`
}

type TopGroup struct {
	costing.Group[string]
	PPM *float64 `json:"ppm"`
}

type TopParams struct {
	From    storage.Date
	To      storage.Date
	GroupBy string
	SortBy  string
	Limit   int
}

type snapshot struct {
	records   []storage.ProductionCost
	daily     map[string]costing.Total
	monthly   map[string]costing.Total
	lines     map[int64]storage.Line
	operators map[int64]storage.Operator
}

// load тянет всё нужное для отчётов параллельно.
func (s *Service) load(ctx context.Context, from, to storage.Date) (snapshot, error) {
	var (
		records   []storage.ProductionRecord
		catalogs  map[int64][]storage.CostEntry
		daily     []storage.DailyTotal
		monthly   []storage.MonthlyTotal
		lines     []storage.Line
		operators []storage.Operator
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.storage.GetProductionRecords(gCtx, storage.ProductionFilter{From: from, To: to})
		if err != nil {
			return fmt.Errorf("records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		catalogs, err = s.storage.GetCostCatalogs(gCtx, nil)
		if err != nil {
			return fmt.Errorf("catalogs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		daily, err = s.storage.GetDailyTotals(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("daily totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		monthly, err = s.storage.GetMonthlyTotals(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("monthly totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lines, err = s.storage.GetLines(gCtx)
		if err != nil {
			return fmt.Errorf("lines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		operators, err = s.storage.GetOperators(gCtx, false)
		if err != nil {
			return fmt.Errorf("operators: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	snap := snapshot{
		records:   s.withCosts(records, catalogs),
		daily:     make(map[string]costing.Total, len(daily)),
		monthly:   make(map[string]costing.Total, len(monthly)),
		lines:     make(map[int64]storage.Line, len(lines)),
		operators: make(map[int64]storage.Operator, len(operators)),
	}

	for _, t := range daily {
		snap.daily[t.Date.String()] = costing.Total{TotalProduction: t.TotalProduction}
	}
	for _, t := range monthly {
		snap.monthly[monthKey(t.Year, t.Month)] = costing.Total{TotalProduction: t.TotalProduction}
	}
	for _, l := range lines {
		snap.lines[l.ID] = l
	}
	for _, o := range operators {
		snap.operators[o.ID] = o
	}

	return snap, nil
}

// DailyAttribution считает по каждому дню периода долю ручных и ремонтных
// изделий. Дни без записей и без итогов попадают в отчёт с source=none.
func (s *Service) DailyAttribution(ctx context.Context, from, to storage.Date) ([]DayAttribution, error) {
	const op = "service.production.DailyAttribution"

	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%s: неверный период: %w", op, costing.ErrInvalidInput)
	}
	if err := period.Check(from, to); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, err, costing.ErrInvalidInput)
	}

	snap, err := s.load(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byDay := make(map[string]*DayAttribution)
	days := period.Days(from, to)
	result := make([]DayAttribution, len(days))

	for i, d := range days {
		result[i] = DayAttribution{Date: d, ManualCost: decimal.Zero, RepairCost: decimal.Zero}
		byDay[d.String()] = &result[i]
	}

	for _, r := range snap.records {
		day, ok := byDay[r.Date.String()]
		if !ok {
			continue
		}

		defined := r.CostStatus == string(costing.CostDefined)
		if !defined {
			day.UndefinedCosts++
		}

		switch r.Kind {
		case storage.KindManual:
			day.ManualQuantity += float64(r.Quantity)
			if defined {
				day.ManualCost = day.ManualCost.Add(r.Cost)
			}
		case storage.KindRepair:
			day.RepairQuantity += float64(r.Quantity)
			if defined {
				day.RepairCost = day.RepairCost.Add(r.Cost)
			}
		}
	}

	for i := range result {
		day := &result[i]

		var dailyTotal, monthlyTotal *costing.Total
		if t, ok := snap.daily[day.Date.String()]; ok {
			dailyTotal = &t
		}
		if t, ok := snap.monthly[monthKey(day.Date.Year(), int(day.Date.Month()))]; ok {
			monthlyTotal = &t
		}

		day.Attribution = costing.ResolveAttribution(day.ManualQuantity, day.RepairQuantity, dailyTotal, monthlyTotal)
		day.Label = day.Attribution.Source.Label()
	}

	return result, nil
}

// Top группирует записи периода и отдаёт первые Limit групп.
func (s *Service) Top(ctx context.Context, p TopParams) ([]TopGroup, error) {
	const op = "service.production.Top"

	snap, err := s.load(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key, err := snap.keyFunc(p.GroupBy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = FieldCost
	}
	if !validSort(sortBy) {
		return nil, fmt.Errorf("%s: неизвестное поле сортировки %q: %w", op, sortBy, costing.ErrInvalidInput)
	}

	groups := costing.Aggregate(snap.records, key, costFields, costing.AggregateOptions{
		SortBy: sortBy,
		TopN:   p.Limit,
	})

	result := make([]TopGroup, 0, len(groups))
	for _, g := range groups {
		item := TopGroup{Group: g}
		if ppm, err := costing.PPM(g.Sum[FieldScrap], g.Sum[FieldQuantity]); err == nil {
			item.PPM = &ppm
		}
		result = append(result, item)
	}

	return result, nil
}

var costFields = []costing.Field[storage.ProductionCost]{
	{Name: FieldQuantity, Value: func(r storage.ProductionCost) float64 { return float64(r.Quantity) }},
	{Name: FieldScrap, Value: func(r storage.ProductionCost) float64 { return float64(r.Scrap) }},
	{Name: FieldDuration, Value: func(r storage.ProductionCost) float64 { return r.DurationSeconds * float64(r.Quantity) }},
	{Name: FieldCost, Value: func(r storage.ProductionCost) float64 {
		if r.CostStatus != string(costing.CostDefined) {
			return 0
		}
		return r.Cost.InexactFloat64()
	}},
}

func validSort(name string) bool {
	if name == costing.SortByCount {
		return true
	}
	for _, f := range costFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (snap snapshot) keyFunc(groupBy string) (func(storage.ProductionCost) string, error) {
	switch groupBy {
	case GroupLine, "":
		return func(r storage.ProductionCost) string { return LineKey(snap.lines, r.LineID) }, nil
	case GroupPart:
		return func(r storage.ProductionCost) string { return r.PartCode }, nil
	case GroupOperator:
		return func(r storage.ProductionCost) string {
			if o, ok := snap.operators[r.OperatorID]; ok {
				return o.Name
			}
			return "#" + strconv.FormatInt(r.OperatorID, 10)
		}, nil
	case GroupMonth:
		return func(r storage.ProductionCost) string { return r.Date.Format("2006-01") }, nil
	case GroupShift:
		return func(r storage.ProductionCost) string {
			if r.ResolvedShift.Valid() {
				return strconv.Itoa(int(r.ResolvedShift))
			}
			return "—"
		}, nil
	case GroupKind:
		return func(r storage.ProductionCost) string { return string(r.Kind) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, groupBy)
	}
}

// Lines: справочник линий по id, для подписей в отчётах.
func (s *Service) Lines(ctx context.Context) (map[int64]storage.Line, error) {
	const op = "service.production.Lines"

	lines, err := s.storage.GetLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[int64]storage.Line, len(lines))
	for _, l := range lines {
		byID[l.ID] = l
	}
	return byID, nil
}

// LineKey: код линии, а для удалённой или неизвестной линии "#<id>".
func LineKey(lines map[int64]storage.Line, id int64) string {
	if l, ok := lines[id]; ok {
		return l.Code
	}
	return "#" + strconv.FormatInt(id, 10)
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
