package costing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CostEntry: одна запись истории стоимости линии.
type CostEntry struct {
	ValidFrom          time.Time
	TotalCostPerSecond decimal.Decimal
}

// Resolution: выбранная запись и признак того, что дата раньше всех записей.
type Resolution struct {
	Entry    CostEntry
	Fallback bool
}

// ResolveCost возвращает запись справочника, действующую на дату at.
// Для пустого справочника возвращается нулевая запись и ErrNoData.
func ResolveCost(entries []CostEntry, at time.Time) (CostEntry, error) {
	res, err := Resolve(entries, at)
	return res.Entry, err
}

// Resolve выбирает самую позднюю запись с ValidFrom <= at, а если таких нет —
// самую раннюю. При одинаковых ValidFrom побеждает последняя в списке.
func Resolve(entries []CostEntry, at time.Time) (Resolution, error) {
	if len(entries) == 0 {
		return Resolution{}, fmt.Errorf("справочник стоимости пуст: %w", ErrNoData)
	}

	day := dateOnly(at)

	var (
		latest    CostEntry
		hasLatest bool
		earliest  = entries[0]
	)

	for _, e := range entries {
		from := dateOnly(e.ValidFrom)

		if !from.After(day) && (!hasLatest || !from.Before(dateOnly(latest.ValidFrom))) {
			latest = e
			hasLatest = true
		}

		if !from.After(dateOnly(earliest.ValidFrom)) {
			earliest = e
		}
	}

	if hasLatest {
		return Resolution{Entry: latest}, nil
	}

	return Resolution{Entry: earliest, Fallback: true}, nil
}

// CostAt: резолв стоимости на дату и расчёт суммы одним вызовом.
func CostAt(entries []CostEntry, at time.Time, quantity, durationSeconds decimal.Decimal) (decimal.Decimal, error) {
	entry, err := ResolveCost(entries, at)
	if err != nil {
		return decimal.Zero, err
	}

	return CalculateCost(quantity, durationSeconds, entry.TotalCostPerSecond)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
