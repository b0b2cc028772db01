package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CalculateCost считает quantity * durationSeconds * costPerSecond.
//
// Нулевая длительность или стоимость дают ноль вместе с ErrNoData:
// это "стоимость ещё не задана", а не бесплатная операция.
// Нулевое количество при заданной стоимости — настоящий ноль без ошибки.
func CalculateCost(quantity, durationSeconds, costPerSecond decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case quantity.IsNegative():
		return decimal.Zero, fmt.Errorf("количество %s: %w", quantity, ErrInvalidInput)
	case durationSeconds.IsNegative():
		return decimal.Zero, fmt.Errorf("длительность %s: %w", durationSeconds, ErrInvalidInput)
	case costPerSecond.IsNegative():
		return decimal.Zero, fmt.Errorf("стоимость секунды %s: %w", costPerSecond, ErrInvalidInput)
	}

	if durationSeconds.IsZero() {
		return decimal.Zero, fmt.Errorf("длительность не задана: %w", ErrNoData)
	}
	if costPerSecond.IsZero() {
		return decimal.Zero, fmt.Errorf("стоимость секунды не задана: %w", ErrNoData)
	}

	return quantity.Mul(durationSeconds).Mul(costPerSecond), nil
}

// FormatMoney форматирует сумму для отчётов: "7500.00 ₺".
func FormatMoney(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		return amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + symbol
}
