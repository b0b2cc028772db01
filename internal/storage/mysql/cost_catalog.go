package mysql

import (
	"context"
	"fmt"

	"ops-costing/internal/storage"
)

const costColumns = "id, line_id, valid_from, cost_per_second, note"

func (s *Storage) GetCostEntries(ctx context.Context, lineID int64) ([]storage.CostEntry, error) {
	const op = "storage.mysql.GetCostEntries"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+costColumns+` FROM line_costs WHERE line_id = ? ORDER BY valid_from, id`, lineID)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения стоимости линии id=%d: %w", op, lineID, err)
	}
	defer rows.Close()

	entries := make([]storage.CostEntry, 0)

	for rows.Next() {
		var e storage.CostEntry
		if err := rows.Scan(&e.ID, &e.LineID, &e.ValidFrom, &e.CostPerSecond, &e.Note); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки стоимости: %w", op, err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return entries, nil
}

// GetCostCatalogs отдаёт справочники стоимости по линиям.
// Пустой lineIDs — все линии.
func (s *Storage) GetCostCatalogs(ctx context.Context, lineIDs []int64) (map[int64][]storage.CostEntry, error) {
	const op = "storage.mysql.GetCostCatalogs"

	query := `SELECT ` + costColumns + ` FROM line_costs`
	var args []interface{}

	if len(lineIDs) > 0 {
		query += ` WHERE line_id IN (` + placeholders(len(lineIDs)) + `)`
		args = toInterfaceSlice(lineIDs)
	}
	query += ` ORDER BY line_id, valid_from, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения справочников стоимости: %w", op, err)
	}
	defer rows.Close()

	catalogs := make(map[int64][]storage.CostEntry)

	for rows.Next() {
		var e storage.CostEntry
		if err := rows.Scan(&e.ID, &e.LineID, &e.ValidFrom, &e.CostPerSecond, &e.Note); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки стоимости: %w", op, err)
		}
		catalogs[e.LineID] = append(catalogs[e.LineID], e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return catalogs, nil
}

func (s *Storage) AddCostEntry(ctx context.Context, e storage.CostEntry) (int64, error) {
	const op = "storage.mysql.AddCostEntry"

	if err := s.lineExists(ctx, e.LineID); err != nil {
		return 0, fmt.Errorf("%s: линия id=%d: %w", op, e.LineID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO line_costs (line_id, valid_from, cost_per_second, note) VALUES (?, ?, ?, ?)`,
		e.LineID, e.ValidFrom, e.CostPerSecond, e.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения стоимости линии id=%d: %w", op, e.LineID, mapErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка получения id записи стоимости: %w", op, err)
	}

	return id, nil
}

func (s *Storage) DeleteCostEntry(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteCostEntry"

	res, err := s.db.ExecContext(ctx, `DELETE FROM line_costs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления записи стоимости id=%d: %w", op, id, err)
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: запись стоимости id=%d: %w", op, id, err)
	}

	return nil
}
