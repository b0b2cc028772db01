package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"ops-costing/internal/storage"
)

var improvementColumns = []string{
	"id", "title", "kind", "line_id", "before_seconds", "after_seconds", "annual_quantity",
	"investment", "cost_snapshot", "snapshot_date", "created_at", "updated_at",
}

func (s *Storage) CreateImprovement(ctx context.Context, imp storage.Improvement) (int64, error) {
	const op = "storage.mysql.CreateImprovement"

	created := stampOrNow(imp.CreatedAt)
	updated := stampOrNow(imp.UpdatedAt)

	query, args, err := builder().
		Insert("improvements").
		Columns(improvementColumns[1:]...).
		Values(
			imp.Title, string(imp.Kind), imp.LineID, imp.BeforeSeconds, imp.AfterSeconds, imp.AnnualQuantity,
			imp.Investment, imp.CostSnapshot, imp.SnapshotDate, timestampArg(&created), timestampArg(&updated),
		).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения улучшения: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка получения id улучшения: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateImprovement(ctx context.Context, imp storage.Improvement) error {
	const op = "storage.mysql.UpdateImprovement"

	now := stampOrNow(imp.UpdatedAt)

	query, args, err := builder().
		Update("improvements").
		SetMap(map[string]interface{}{
			"title":           imp.Title,
			"kind":            string(imp.Kind),
			"line_id":         imp.LineID,
			"before_seconds":  imp.BeforeSeconds,
			"after_seconds":   imp.AfterSeconds,
			"annual_quantity": imp.AnnualQuantity,
			"investment":      imp.Investment,
			"cost_snapshot":   imp.CostSnapshot,
			"snapshot_date":   imp.SnapshotDate,
			"updated_at":      timestampArg(&now),
		}).
		Where(squirrel.Eq{"id": imp.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления улучшения id=%d: %w", op, imp.ID, err)
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: улучшение id=%d: %w", op, imp.ID, err)
	}

	return nil
}

func (s *Storage) GetImprovement(ctx context.Context, id int64) (storage.Improvement, error) {
	const op = "storage.mysql.GetImprovement"

	query, args, err := builder().
		Select(improvementColumns...).
		From("improvements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storage.Improvement{}, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	imp, err := scanImprovement(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return storage.Improvement{}, fmt.Errorf("%s: улучшение id=%d: %w", op, id, mapErr(err))
	}

	return imp, nil
}

func (s *Storage) GetImprovements(ctx context.Context, filter storage.ImprovementFilter) ([]storage.Improvement, error) {
	const op = "storage.mysql.GetImprovements"

	q := builder().Select(improvementColumns...).From("improvements").OrderBy("id")
	if filter.LineID != 0 {
		q = q.Where(squirrel.Eq{"line_id": filter.LineID})
	}
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка сборки запроса: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения улучшений: %w", op, err)
	}
	defer rows.Close()

	list := make([]storage.Improvement, 0)

	for rows.Next() {
		imp, err := scanImprovement(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования улучшения: %w", op, err)
		}
		list = append(list, imp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return list, nil
}

func (s *Storage) DeleteImprovement(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteImprovement"

	res, err := s.db.ExecContext(ctx, `DELETE FROM improvements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления улучшения id=%d: %w", op, id, err)
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: улучшение id=%d: %w", op, id, err)
	}

	return nil
}

func scanImprovement(row rowScanner) (storage.Improvement, error) {
	var (
		imp                  storage.Improvement
		createdAt, updatedAt nullTimestamp
	)

	err := row.Scan(
		&imp.ID, &imp.Title, &imp.Kind, &imp.LineID, &imp.BeforeSeconds, &imp.AfterSeconds, &imp.AnnualQuantity,
		&imp.Investment, &imp.CostSnapshot, &imp.SnapshotDate, &createdAt, &updatedAt,
	)
	if err != nil {
		return storage.Improvement{}, err
	}

	imp.CreatedAt = createdAt.Time
	imp.UpdatedAt = updatedAt.Time

	return imp, nil
}

// Метку обычно ставит сервис; пустая означает "сейчас".
func stampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
