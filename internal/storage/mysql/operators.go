package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"ops-costing/internal/storage"
)

func (s *Storage) GetOperators(ctx context.Context, activeOnly bool) ([]storage.Operator, error) {
	const op = "storage.mysql.GetOperators"

	query := `SELECT id, name, line_id, is_active FROM operators`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения операторов: %w", op, err)
	}
	defer rows.Close()

	operators := make([]storage.Operator, 0)

	for rows.Next() {
		var (
			o      storage.Operator
			lineID sql.NullInt64
		)

		if err := rows.Scan(&o.ID, &o.Name, &lineID, &o.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк для операторов: %w", op, err)
		}
		if lineID.Valid {
			o.LineID = &lineID.Int64
		}

		operators = append(operators, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return operators, nil
}

func (s *Storage) CreateOperator(ctx context.Context, o storage.Operator) (int64, error) {
	const op = "storage.mysql.CreateOperator"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO operators (name, line_id, is_active) VALUES (?, ?, ?)`,
		o.Name, nullableID(o.LineID), o.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения оператора: %w", op, mapErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка получения id оператора: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateOperators(ctx context.Context, ops []storage.Operator) error {
	const op = "storage.mysql.UpdateOperators"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: ошибка при создании транзакции: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE operators SET name = ?, line_id = ?, is_active = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%s: ошибка при подготовке запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, o := range ops {
		res, err := stmt.ExecContext(ctx, o.Name, nullableID(o.LineID), o.IsActive, o.ID)
		if err != nil {
			return fmt.Errorf("%s: ошибка при обновлении оператора id=%d: %w", op, o.ID, mapErr(err))
		}
		if err := mustAffect(res); err != nil {
			return fmt.Errorf("%s: оператор id=%d: %w", op, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

func nullableID(id *int64) any {
	if id == nil || *id == 0 {
		return nil
	}
	return *id
}
