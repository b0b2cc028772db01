package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PPM: брак на миллион: scrap / (quantity + scrap) * 1 000 000.
func PPM(scrap, quantity float64) (float64, error) {
	if scrap < 0 || quantity < 0 {
		return 0, fmt.Errorf("брак %v, количество %v: %w", scrap, quantity, ErrInvalidInput)
	}

	total := quantity + scrap
	if total == 0 {
		return 0, fmt.Errorf("нет выпуска для расчёта PPM: %w", ErrNoData)
	}

	return scrap / total * 1_000_000, nil
}

type ImprovementInput struct {
	BeforeSeconds  float64
	AfterSeconds   float64
	AnnualQuantity float64
	CostSnapshot   decimal.Decimal
	Investment     decimal.Decimal
}

// Impact считается только из сохранённого снимка стоимости.
type Impact struct {
	SecondsSavedPerUnit float64         `json:"seconds_saved_per_unit"`
	ImprovementPercent  float64         `json:"improvement_percent"`
	AnnualSecondsSaved  float64         `json:"annual_seconds_saved"`
	AnnualSavings       decimal.Decimal `json:"annual_savings"`
	ROIPercent          *float64        `json:"roi_percent"`
	PaybackMonths       *float64        `json:"payback_months"`
	CostStatus          CostStatus      `json:"cost_status"`
}

// ImprovementImpact считает эффект улучшения. Отрицательная экономия
// (после стало хуже) допустима и возвращается как есть.
func ImprovementImpact(in ImprovementInput) (Impact, error) {
	if in.BeforeSeconds < 0 || in.AfterSeconds < 0 || in.AnnualQuantity < 0 ||
		in.CostSnapshot.IsNegative() || in.Investment.IsNegative() {
		return Impact{CostStatus: CostInvalid}, fmt.Errorf("отрицательные параметры улучшения: %w", ErrInvalidInput)
	}

	saved := in.BeforeSeconds - in.AfterSeconds

	imp := Impact{
		SecondsSavedPerUnit: saved,
		AnnualSecondsSaved:  saved * in.AnnualQuantity,
		AnnualSavings:       decimal.Zero,
		CostStatus:          CostDefined,
	}
	if in.BeforeSeconds > 0 {
		imp.ImprovementPercent = saved / in.BeforeSeconds * 100
	}

	if in.CostSnapshot.IsZero() {
		imp.CostStatus = CostUndefined
		return imp, fmt.Errorf("снимок стоимости не задан: %w", ErrNoData)
	}

	imp.AnnualSavings = decimal.NewFromFloat(saved).
		Mul(decimal.NewFromFloat(in.AnnualQuantity)).
		Mul(in.CostSnapshot)

	if in.Investment.IsPositive() {
		roi, _ := imp.AnnualSavings.Sub(in.Investment).Div(in.Investment).Mul(decimal.NewFromInt(100)).Float64()
		imp.ROIPercent = &roi

		if imp.AnnualSavings.IsPositive() {
			months, _ := in.Investment.Div(imp.AnnualSavings.Div(decimal.NewFromInt(12))).Float64()
			imp.PaybackMonths = &months
		}
	}

	return imp, nil
}
