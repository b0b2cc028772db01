package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"ops-costing/internal/storage"
)

var productionColumns = []string{
	"id", "kind", "date", "line_id", "part_code", "quantity", "scrap",
	"duration_seconds", "operator_id", "shift", "recorded_at", "batch_id", "note",
}

// SaveProductionRecords сохраняет пачку записей одной транзакцией и
// возвращает их id в том же порядке.
func (s *Storage) SaveProductionRecords(ctx context.Context, records []storage.ProductionRecord) ([]int64, error) {
	const op = "storage.mysql.SaveProductionRecords"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO production_records
		(kind, date, line_id, part_code, quantity, scrap, duration_seconds, operator_id, shift, recorded_at, batch_id, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка подготовки запроса: %w", op, err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(records))

	for i, r := range records {
		res, err := stmt.ExecContext(ctx,
			string(r.Kind), r.Date, r.LineID, r.PartCode, r.Quantity, r.Scrap, r.DurationSeconds,
			r.OperatorID, nullableShift(r.Shift), timestampArg(r.RecordedAt), r.BatchID, r.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка вставки записи №%d (line_id=%d): %w", op, i+1, r.LineID, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка получения id записи: %w", op, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return ids, nil
}

func (s *Storage) UpdateProductionRecord(ctx context.Context, r storage.ProductionRecord) error {
	const op = "storage.mysql.UpdateProductionRecord"

	res, err := s.db.ExecContext(ctx, `
		UPDATE production_records
		SET kind = ?, date = ?, line_id = ?, part_code = ?, quantity = ?, scrap = ?,
		    duration_seconds = ?, operator_id = ?, shift = ?, recorded_at = ?, note = ?
		WHERE id = ?
	`,
		string(r.Kind), r.Date, r.LineID, r.PartCode, r.Quantity, r.Scrap,
		r.DurationSeconds, r.OperatorID, nullableShift(r.Shift), timestampArg(r.RecordedAt), r.Note,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления записи id=%d: %w", op, r.ID, err)
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: запись id=%d: %w", op, r.ID, err)
	}

	return nil
}

func (s *Storage) DeleteProductionRecord(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteProductionRecord"

	res, err := s.db.ExecContext(ctx, `DELETE FROM production_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления записи id=%d: %w", op, id, err)
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: запись id=%d: %w", op, id, err)
	}

	return nil
}

// DeleteProductionBatch удаляет все записи вида kind за день. Возвращает
// количество удалённых строк, 0 — не ошибка.
func (s *Storage) DeleteProductionBatch(ctx context.Context, date storage.Date, kind storage.Kind) (int64, error) {
	const op = "storage.mysql.DeleteProductionBatch"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM production_records WHERE date = ? AND kind = ?`, date, string(kind))
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка удаления записей за %s (%s): %w", op, date, kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) GetProductionRecord(ctx context.Context, id int64) (storage.ProductionRecord, error) {
	const op = "storage.mysql.GetProductionRecord"

	query, args, err := builder().
		Select(productionColumns...).
		From("production_records").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storage.ProductionRecord{}, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	r, err := scanProduction(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return storage.ProductionRecord{}, fmt.Errorf("%s: запись id=%d: %w", op, id, mapErr(err))
	}

	return r, nil
}

func (s *Storage) GetProductionRecords(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionRecord, error) {
	const op = "storage.mysql.GetProductionRecords"

	query, args, err := buildProductionFilters(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения записей выпуска: %w", op, err)
	}
	defer rows.Close()

	records := make([]storage.ProductionRecord, 0)

	for rows.Next() {
		r, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования записи выпуска: %w", op, err)
		}
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return records, nil
}

func buildProductionFilters(f storage.ProductionFilter) squirrel.SelectBuilder {
	q := builder().
		Select(productionColumns...).
		From("production_records").
		OrderBy("date", "id")

	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"date": f.To})
	}
	if f.LineID != 0 {
		q = q.Where(squirrel.Eq{"line_id": f.LineID})
	}
	if f.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": string(f.Kind)})
	}

	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduction(row rowScanner) (storage.ProductionRecord, error) {
	var (
		r          storage.ProductionRecord
		shift      sql.NullInt64
		recordedAt nullTimestamp
	)

	err := row.Scan(
		&r.ID, &r.Kind, &r.Date, &r.LineID, &r.PartCode, &r.Quantity, &r.Scrap,
		&r.DurationSeconds, &r.OperatorID, &shift, &recordedAt, &r.BatchID, &r.Note,
	)
	if err != nil {
		return storage.ProductionRecord{}, err
	}

	if shift.Valid {
		v := int(shift.Int64)
		r.Shift = &v
	}
	r.RecordedAt = recordedAt.ptr()

	return r, nil
}

func nullableShift(shift *int) any {
	if shift == nil {
		return nil
	}
	return *shift
}
