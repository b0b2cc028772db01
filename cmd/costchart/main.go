// costchart печатает в терминал график дневной стоимости выпуска по линии.
//
//	costchart -config ./config/local.yaml -line 3 -from 2024-03-01 -to 2024-03-31
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"
	"ops-costing/internal/config"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage"
	"ops-costing/internal/storage/mysql"
)

type options struct {
	configPath string
	lineID     int64
	from, to   string
	width      int
	height     int
}

func main() {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "путь к yaml-конфигу (по умолчанию CONFIG_PATH или ./config/local.yaml)")
	flag.Int64Var(&opts.lineID, "line", 0, "id линии, 0 — все линии")
	flag.StringVar(&opts.from, "from", "", "начало периода YYYY-MM-DD (по умолчанию начало месяца)")
	flag.StringVar(&opts.to, "to", "", "конец периода YYYY-MM-DD")
	flag.IntVar(&opts.width, "width", 60, "ширина графика")
	flag.IntVar(&opts.height, "height", 12, "высота графика")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	loc, err := cfg.Plant.Location()
	if err != nil {
		return err
	}

	from, to, err := parsePeriod(opts.from, opts.to, time.Now().In(loc))
	if err != nil {
		return err
	}

	db, err := mysql.New(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := production.NewService(db, loc).Records(ctx, storage.ProductionFilter{
		From:   from,
		To:     to,
		LineID: opts.lineID,
	})
	if err != nil {
		return err
	}

	series, total := dailyCosts(records, from, to)

	caption := fmt.Sprintf("стоимость по дням %s..%s, итого %s", from, to, costing.FormatMoney(total, cfg.Plant.Currency))
	if opts.lineID != 0 {
		caption = fmt.Sprintf("линия %d: %s", opts.lineID, caption)
	}

	_, err = fmt.Fprintln(out, render(series, opts.width, opts.height, caption))
	return err
}

func parsePeriod(fromStr, toStr string, now time.Time) (storage.Date, storage.Date, error) {
	if fromStr == "" && toStr == "" {
		from, to := period.Month(now.Year(), now.Month())
		return from, to, nil
	}

	from, err := storage.ParseDate(fromStr)
	if err != nil {
		return storage.Date{}, storage.Date{}, fmt.Errorf("неверный -from: %w", err)
	}

	to := storage.DateOf(now)
	if toStr != "" {
		if to, err = storage.ParseDate(toStr); err != nil {
			return storage.Date{}, storage.Date{}, fmt.Errorf("неверный -to: %w", err)
		}
	}

	if err := period.Check(from, to); err != nil {
		return storage.Date{}, storage.Date{}, err
	}

	return from, to, nil
}

// dailyCosts: сумма определённых стоимостей по каждому дню периода.
// Записи с неопределённой стоимостью в сумму не входят.
func dailyCosts(records []storage.ProductionCost, from, to storage.Date) ([]float64, decimal.Decimal) {
	days := period.Days(from, to)
	index := make(map[string]int, len(days))
	sums := make([]decimal.Decimal, len(days))

	for i, d := range days {
		index[d.String()] = i
		sums[i] = decimal.Zero
	}

	total := decimal.Zero
	for _, r := range records {
		i, ok := index[r.Date.String()]
		if !ok || r.CostStatus != string(costing.CostDefined) {
			continue
		}
		sums[i] = sums[i].Add(r.Cost)
		total = total.Add(r.Cost)
	}

	series := make([]float64, len(sums))
	for i, s := range sums {
		series[i] = s.InexactFloat64()
	}

	return series, total
}

func render(series []float64, width, height int, caption string) string {
	if len(series) == 0 {
		return "нет данных"
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
