package storage

import "github.com/shopspring/decimal"

// Line: производственная линия (рабочий центр).
type Line struct {
	ID       int64  `json:"id"`
	Code     string `json:"code" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=255"`
	IsActive bool   `json:"is_active"`
}

// CostEntry: стоимость секунды работы линии, действующая с ValidFrom.
type CostEntry struct {
	ID            int64           `json:"id"`
	LineID        int64           `json:"line_id"`
	ValidFrom     Date            `json:"valid_from"`
	CostPerSecond decimal.Decimal `json:"total_cost_per_second"`
	Note          string          `json:"note"`
}
