package generate_excel

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage"
)

const (
	sheetProduction  = "Production"
	sheetAttribution = "Attribution"
	sheetTopLines    = "Top lines"

	undefinedCost = "—"
	topLinesLimit = 10
)

type ReportSource interface {
	Records(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionCost, error)
	DailyAttribution(ctx context.Context, from, to storage.Date) ([]production.DayAttribution, error)
	Top(ctx context.Context, p production.TopParams) ([]production.TopGroup, error)
	Lines(ctx context.Context) (map[int64]storage.Line, error)
}

type GenerateExcelService struct {
	source   ReportSource
	currency string
}

func NewGenerateService(source ReportSource, currency string) *GenerateExcelService {
	return &GenerateExcelService{source: source, currency: currency}
}

// GenerateExcel собирает книгу за период: записи со стоимостью, дневная
// атрибуция и топ линий по стоимости.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, from, to storage.Date) ([]byte, error) {
	records, err := g.source.Records(ctx, storage.ProductionFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	days, err := g.source.DailyAttribution(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch attribution: %w", err)
	}

	top, err := g.source.Top(ctx, production.TopParams{
		From:    from,
		To:      to,
		GroupBy: production.GroupLine,
		SortBy:  production.FieldCost,
		Limit:   topLinesLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch top lines: %w", err)
	}

	lines, err := g.source.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch lines: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetProduction)
	if _, err := f.NewSheet(sheetAttribution); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetTopLines); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	// --- Записи ---
	writeHeader(f, sheetProduction, headerStyle, []string{
		"Дата", "Вид", "Линия", "Деталь", "Кол-во", "Брак", "Сек/шт", "Смена", "Оператор", "Стоимость сек", "Стоимость", "Статус",
	})
	for i, r := range records {
		row := i + 2
		shift := ""
		if r.ResolvedShift.Valid() {
			shift = fmt.Sprint(r.ResolvedShift)
		}

		f.SetCellValue(sheetProduction, cellName(1, row), r.Date.String())
		f.SetCellValue(sheetProduction, cellName(2, row), kindName(r.Kind))
		f.SetCellValue(sheetProduction, cellName(3, row), production.LineKey(lines, r.LineID))
		f.SetCellValue(sheetProduction, cellName(4, row), r.PartCode)
		f.SetCellValue(sheetProduction, cellName(5, row), r.Quantity)
		f.SetCellValue(sheetProduction, cellName(6, row), r.Scrap)
		f.SetCellValue(sheetProduction, cellName(7, row), r.DurationSeconds)
		f.SetCellValue(sheetProduction, cellName(8, row), shift)
		f.SetCellValue(sheetProduction, cellName(9, row), r.OperatorID)
		f.SetCellValue(sheetProduction, cellName(10, row), r.CostPerSecond.String())
		f.SetCellValue(sheetProduction, cellName(11, row), g.money(r.Cost, r.CostStatus))
		f.SetCellValue(sheetProduction, cellName(12, row), r.CostStatus)
	}

	// --- Атрибуция ---
	writeHeader(f, sheetAttribution, headerStyle, []string{
		"Дата", "Ручные, шт", "Ремонт, шт", "Ручные, %", "Ремонт, %", "Источник", "Оценка", "Ручные, сумма", "Ремонт, сумма", "Без стоимости",
	})
	for i, d := range days {
		row := i + 2
		f.SetCellValue(sheetAttribution, cellName(1, row), d.Date.String())
		f.SetCellValue(sheetAttribution, cellName(2, row), d.ManualQuantity)
		f.SetCellValue(sheetAttribution, cellName(3, row), d.RepairQuantity)
		f.SetCellValue(sheetAttribution, cellName(4, row), round2(d.ManualPercentage))
		f.SetCellValue(sheetAttribution, cellName(5, row), round2(d.RepairPercentage))
		f.SetCellValue(sheetAttribution, cellName(6, row), string(d.Source))
		f.SetCellValue(sheetAttribution, cellName(7, row), d.Label)
		f.SetCellValue(sheetAttribution, cellName(8, row), costing.FormatMoney(d.ManualCost, g.currency))
		f.SetCellValue(sheetAttribution, cellName(9, row), costing.FormatMoney(d.RepairCost, g.currency))
		f.SetCellValue(sheetAttribution, cellName(10, row), d.UndefinedCosts)
	}

	// --- Топ линий ---
	writeHeader(f, sheetTopLines, headerStyle, []string{
		"Линия", "Записей", "Кол-во", "Брак", "PPM", "Стоимость",
	})
	for i, t := range top {
		row := i + 2
		ppm := "—"
		if t.PPM != nil {
			ppm = fmt.Sprintf("%.0f", *t.PPM)
		}

		f.SetCellValue(sheetTopLines, cellName(1, row), t.Key)
		f.SetCellValue(sheetTopLines, cellName(2, row), t.Count)
		f.SetCellValue(sheetTopLines, cellName(3, row), t.Sum[production.FieldQuantity])
		f.SetCellValue(sheetTopLines, cellName(4, row), t.Sum[production.FieldScrap])
		f.SetCellValue(sheetTopLines, cellName(5, row), ppm)
		f.SetCellValue(sheetTopLines, cellName(6, row), fmt.Sprintf("%.2f %s", t.Sum[production.FieldCost], g.currency))
	}

	for _, sheet := range []string{sheetProduction, sheetAttribution, sheetTopLines} {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
		})
		f.SetColWidth(sheet, "A", "L", 15)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// money: неопределённая стоимость выводится прочерком, а не нулём.
func (g *GenerateExcelService) money(amount decimal.Decimal, status string) string {
	if status != string(costing.CostDefined) {
		return undefinedCost
	}
	return costing.FormatMoney(amount, g.currency)
}

func writeHeader(f *excelize.File, sheet string, style int, headers []string) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func kindName(k storage.Kind) string {
	switch k {
	case storage.KindManual:
		return "ручная"
	case storage.KindRepair:
		return "ремонт"
	default:
		return string(k)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
