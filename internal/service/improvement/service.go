package improvement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/storage"
)

type Storage interface {
	CreateImprovement(ctx context.Context, imp storage.Improvement) (int64, error)
	UpdateImprovement(ctx context.Context, imp storage.Improvement) error
	GetImprovement(ctx context.Context, id int64) (storage.Improvement, error)
	GetImprovements(ctx context.Context, filter storage.ImprovementFilter) ([]storage.Improvement, error)
	GetCostEntries(ctx context.Context, lineID int64) ([]storage.CostEntry, error)
}

// View: улучшение вместе с посчитанным эффектом.
type View struct {
	storage.Improvement
	Impact costing.Impact `json:"impact"`
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage, now: time.Now}
}

// Create фиксирует стоимость секунды линии на дату snapshot_date (или сегодня)
// и сохраняет улучшение.
func (s *Service) Create(ctx context.Context, imp storage.Improvement) (View, error) {
	const op = "service.improvement.Create"

	if err := check(imp); err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.snapshot(ctx, &imp); err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	imp.CreatedAt = s.stamp()
	imp.UpdatedAt = imp.CreatedAt

	id, err := s.storage.CreateImprovement(ctx, imp)
	if err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}
	imp.ID = id

	return view(imp), nil
}

// Update перезаписывает поля улучшения. Снимок стоимости остаётся прежним,
// пока явно не попросили refresh.
func (s *Service) Update(ctx context.Context, imp storage.Improvement, refresh bool) (View, error) {
	const op = "service.improvement.Update"

	if err := check(imp); err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.storage.GetImprovement(ctx, imp.ID)
	if err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	imp.CreatedAt = current.CreatedAt
	imp.UpdatedAt = s.stamp()

	if refresh || current.LineID != imp.LineID {
		if err := s.snapshot(ctx, &imp); err != nil {
			return View{}, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		imp.CostSnapshot = current.CostSnapshot
		imp.SnapshotDate = current.SnapshotDate
	}

	if err := s.storage.UpdateImprovement(ctx, imp); err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	return view(imp), nil
}

// stamp: метка времени в том виде, в каком она ляжет в БД.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	const op = "service.improvement.Get"

	imp, err := s.storage.GetImprovement(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	return view(imp), nil
}

func (s *Service) List(ctx context.Context, filter storage.ImprovementFilter) ([]View, error) {
	const op = "service.improvement.List"

	list, err := s.storage.GetImprovements(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views := make([]View, 0, len(list))
	for _, imp := range list {
		views = append(views, view(imp))
	}

	return views, nil
}

// snapshot заполняет CostSnapshot. Пустой справочник — не ошибка: снимок
// нулевой, а эффект получит статус undefined.
func (s *Service) snapshot(ctx context.Context, imp *storage.Improvement) error {
	if imp.SnapshotDate.IsZero() {
		imp.SnapshotDate = storage.DateOf(s.now())
	}

	entries, err := s.storage.GetCostEntries(ctx, imp.LineID)
	if err != nil {
		return err
	}

	catalog := make([]costing.CostEntry, 0, len(entries))
	for _, e := range entries {
		catalog = append(catalog, costing.CostEntry{ValidFrom: e.ValidFrom.Time, TotalCostPerSecond: e.CostPerSecond})
	}

	entry, err := costing.ResolveCost(catalog, imp.SnapshotDate.Time)
	if err != nil && !errors.Is(err, costing.ErrNoData) {
		return err
	}

	imp.CostSnapshot = entry.TotalCostPerSecond
	if errors.Is(err, costing.ErrNoData) {
		imp.CostSnapshot = decimal.Zero
	}

	return nil
}

func view(imp storage.Improvement) View {
	// эффект считается только от снимка, справочник здесь не участвует
	impact, _ := costing.ImprovementImpact(costing.ImprovementInput{
		BeforeSeconds:  imp.BeforeSeconds,
		AfterSeconds:   imp.AfterSeconds,
		AnnualQuantity: imp.AnnualQuantity,
		CostSnapshot:   imp.CostSnapshot,
		Investment:     imp.Investment,
	})

	return View{Improvement: imp, Impact: impact}
}

func check(imp storage.Improvement) error {
	switch {
	case imp.LineID <= 0:
		return fmt.Errorf("не указана линия: %w", costing.ErrInvalidInput)
	case imp.Kind != storage.ImprovementScenario && imp.Kind != storage.ImprovementKaizen && imp.Kind != storage.ImprovementProject:
		return fmt.Errorf("неизвестный вид улучшения %q: %w", imp.Kind, costing.ErrInvalidInput)
	case imp.BeforeSeconds < 0 || imp.AfterSeconds < 0 || imp.AnnualQuantity < 0 || imp.Investment.IsNegative():
		return fmt.Errorf("отрицательные значения: %w", costing.ErrInvalidInput)
	}
	return nil
}
