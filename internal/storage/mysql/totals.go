package mysql

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"ops-costing/internal/storage"
)

// SaveDailyTotals перезаписывает итоги за указанные дни. Удаление и вставка
// в одной транзакции работают одинаково на mysql и sqlite.
func (s *Storage) SaveDailyTotals(ctx context.Context, totals []storage.DailyTotal) error {
	const op = "storage.mysql.SaveDailyTotals"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}
	defer tx.Rollback()

	for _, t := range totals {
		if _, err := tx.ExecContext(ctx, `DELETE FROM daily_totals WHERE date = ?`, t.Date); err != nil {
			return fmt.Errorf("%s: ошибка удаления итога за %s: %w", op, t.Date, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_totals (date, total_production) VALUES (?, ?)`,
			t.Date, t.TotalProduction,
		); err != nil {
			return fmt.Errorf("%s: ошибка сохранения итога за %s: %w", op, t.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

func (s *Storage) SaveMonthlyTotals(ctx context.Context, totals []storage.MonthlyTotal) error {
	const op = "storage.mysql.SaveMonthlyTotals"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}
	defer tx.Rollback()

	for _, t := range totals {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM monthly_totals WHERE year = ? AND month = ?`, t.Year, t.Month,
		); err != nil {
			return fmt.Errorf("%s: ошибка удаления итога за %d-%02d: %w", op, t.Year, t.Month, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_totals (year, month, total_production) VALUES (?, ?, ?)`,
			t.Year, t.Month, t.TotalProduction,
		); err != nil {
			return fmt.Errorf("%s: ошибка сохранения итога за %d-%02d: %w", op, t.Year, t.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

func (s *Storage) GetDailyTotals(ctx context.Context, from, to storage.Date) ([]storage.DailyTotal, error) {
	const op = "storage.mysql.GetDailyTotals"

	q := builder().Select("date", "total_production").From("daily_totals").OrderBy("date")
	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.LtOrEq{"date": to})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения дневных итогов: %w", op, err)
	}
	defer rows.Close()

	totals := make([]storage.DailyTotal, 0)

	for rows.Next() {
		var t storage.DailyTotal
		if err := rows.Scan(&t.Date, &t.TotalProduction); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования дневного итога: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return totals, nil
}

// GetMonthlyTotals возвращает итоги месяцев, пересекающихся с периодом.
func (s *Storage) GetMonthlyTotals(ctx context.Context, from, to storage.Date) ([]storage.MonthlyTotal, error) {
	const op = "storage.mysql.GetMonthlyTotals"

	q := builder().Select("year", "month", "total_production").From("monthly_totals").OrderBy("year", "month")
	if !from.IsZero() {
		q = q.Where("year * 100 + month >= ?", from.Year()*100+int(from.Month()))
	}
	if !to.IsZero() {
		q = q.Where("year * 100 + month <= ?", to.Year()*100+int(to.Month()))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения месячных итогов: %w", op, err)
	}
	defer rows.Close()

	totals := make([]storage.MonthlyTotal, 0)

	for rows.Next() {
		var t storage.MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.TotalProduction); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования месячного итога: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return totals, nil
}
