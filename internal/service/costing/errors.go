package costing

import "errors"

var (
	// ErrInvalidInput: отрицательные количества, длительности или стоимость.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoData: нет справочника стоимости, не задана длительность или нет итогов.
	ErrNoData = errors.New("no data available")
)

// CostStatus показывает фронту, можно ли доверять посчитанной сумме.
type CostStatus string

const (
	CostDefined   CostStatus = "defined"
	CostUndefined CostStatus = "undefined"
	CostInvalid   CostStatus = "invalid"
)

// StatusOf переводит ошибку расчёта в статус для ответа.
func StatusOf(err error) CostStatus {
	switch {
	case err == nil:
		return CostDefined
	case errors.Is(err, ErrInvalidInput):
		return CostInvalid
	default:
		return CostUndefined
	}
}
