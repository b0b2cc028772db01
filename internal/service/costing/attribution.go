package costing

// Source: откуда взят знаменатель для процентов.
type Source string

const (
	SourceDaily   Source = "daily"
	SourceMonthly Source = "monthly"
	SourceRecord  Source = "record"
	SourceNone    Source = "none"
)

// Measured: знаменатель взят из заявленного выпуска, а не из самих записей.
func (s Source) Measured() bool {
	return s == SourceDaily || s == SourceMonthly
}

// Label: подпись для отчётов. Проценты от source=record всегда дают
// в сумме 100 и показывают только соотношение ручных и ремонтных.
func (s Source) Label() string {
	switch s {
	case SourceDaily, SourceMonthly:
		return "measured"
	case SourceRecord:
		return "estimated"
	default:
		return "none"
	}
}

// Total: заявленный выпуск за день или месяц.
type Total struct {
	TotalProduction float64 `json:"total_production"`
}

type Attribution struct {
	ManualPercentage float64 `json:"manual_percentage"`
	RepairPercentage float64 `json:"repair_percentage"`
	Source           Source  `json:"source"`
}

// ResolveAttribution считает долю ручных и ремонтных изделий.
// Приоритет: дневной итог, месячный итог, сумма самих записей.
func ResolveAttribution(manualQty, repairQty float64, daily, monthly *Total) Attribution {
	manualQty = nonNegative(manualQty)
	repairQty = nonNegative(repairQty)

	if daily != nil && daily.TotalProduction > 0 {
		return share(manualQty, repairQty, daily.TotalProduction, SourceDaily)
	}

	if monthly != nil && monthly.TotalProduction > 0 {
		return share(manualQty, repairQty, monthly.TotalProduction, SourceMonthly)
	}

	if sum := manualQty + repairQty; sum > 0 {
		return share(manualQty, repairQty, sum, SourceRecord)
	}

	return Attribution{Source: SourceNone}
}

func share(manualQty, repairQty, total float64, src Source) Attribution {
	return Attribution{
		ManualPercentage: manualQty / total * 100,
		RepairPercentage: repairQty / total * 100,
		Source:           src,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
