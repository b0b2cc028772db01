package storage

import (
	"time"

	"github.com/shopspring/decimal"
	"ops-costing/internal/service/costing"
)

type Kind string

const (
	KindManual Kind = "manual"
	KindRepair Kind = "repair"
)

// ProductionRecord: ручная или ремонтная запись выпуска.
type ProductionRecord struct {
	ID              int64      `json:"id"`
	Kind            Kind       `json:"kind"`
	Date            Date       `json:"date"`
	LineID          int64      `json:"line_id"`
	PartCode        string     `json:"part_code"`
	Quantity        int64      `json:"quantity"`
	Scrap           int64      `json:"scrap"`
	DurationSeconds float64    `json:"duration_seconds"`
	OperatorID      int64      `json:"operator_id"`
	Shift           *int       `json:"shift"`
	RecordedAt      *time.Time `json:"recorded_at"`
	BatchID         string     `json:"batch_id"`
	Note            string     `json:"note"`
}

type ProductionFilter struct {
	From   Date
	To     Date
	LineID int64
	Kind   Kind
}

// ProductionCost: запись с посчитанной стоимостью на дату записи.
type ProductionCost struct {
	ProductionRecord
	CostPerSecond decimal.Decimal `json:"cost_per_second"`
	Cost          decimal.Decimal `json:"cost"`
	CostStatus    string          `json:"cost_status"`
	ResolvedShift costing.Shift   `json:"resolved_shift"` // null, если смену определить нельзя
}
