package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type ImprovementKind string

const (
	ImprovementScenario ImprovementKind = "scenario"
	ImprovementKaizen   ImprovementKind = "kaizen"
	ImprovementProject  ImprovementKind = "project"
)

// Improvement: сценарий/запись улучшения. CostSnapshot фиксируется при
// сохранении и дальше не зависит от справочника стоимости линии.
type Improvement struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Kind           ImprovementKind `json:"kind"`
	LineID         int64           `json:"line_id"`
	BeforeSeconds  float64         `json:"before_seconds"`
	AfterSeconds   float64         `json:"after_seconds"`
	AnnualQuantity float64         `json:"annual_quantity"`
	Investment     decimal.Decimal `json:"investment"`
	CostSnapshot   decimal.Decimal `json:"cost_snapshot"`
	SnapshotDate   Date            `json:"snapshot_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ImprovementFilter struct {
	LineID int64
	Kind   ImprovementKind
}
