package mysql

import (
	"context"
	"errors"
	"fmt"

	"ops-costing/internal/storage"
)

func (s *Storage) GetLines(ctx context.Context) ([]storage.Line, error) {
	const op = "storage.mysql.GetLines"

	rows, err := s.db.QueryContext(ctx, `SELECT id, code, name, is_active FROM production_lines ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения линий: %w", op, err)
	}
	defer rows.Close()

	lines := make([]storage.Line, 0)

	for rows.Next() {
		var l storage.Line
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки линии: %w", op, err)
		}
		lines = append(lines, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return lines, nil
}

func (s *Storage) GetLine(ctx context.Context, id int64) (storage.Line, error) {
	const op = "storage.mysql.GetLine"

	var l storage.Line

	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, is_active FROM production_lines WHERE id = ?`, id,
	).Scan(&l.ID, &l.Code, &l.Name, &l.IsActive)
	if err != nil {
		return storage.Line{}, fmt.Errorf("%s: линия id=%d: %w", op, id, mapErr(err))
	}

	return l, nil
}

func (s *Storage) CreateLine(ctx context.Context, l storage.Line) (int64, error) {
	const op = "storage.mysql.CreateLine"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO production_lines (code, name, is_active) VALUES (?, ?, ?)`,
		l.Code, l.Name, l.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения линии code=%s: %w", op, l.Code, mapErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка получения id линии: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateLine(ctx context.Context, l storage.Line) error {
	const op = "storage.mysql.UpdateLine"

	res, err := s.db.ExecContext(ctx,
		`UPDATE production_lines SET code = ?, name = ?, is_active = ? WHERE id = ?`,
		l.Code, l.Name, l.IsActive, l.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления линии id=%d: %w", op, l.ID, mapErr(err))
	}

	if err := mustAffect(res); err != nil {
		return fmt.Errorf("%s: линия id=%d: %w", op, l.ID, err)
	}

	return nil
}

func (s *Storage) lineExists(ctx context.Context, id int64) error {
	var one int

	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM production_lines WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(mapErr(err), storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return err
	}

	return nil
}
