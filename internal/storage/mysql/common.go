package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
	"ops-costing/internal/storage"
)

// builder: общий построитель запросов; и mysql, и sqlite понимают "?".
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func placeholders(n int) string {
	return strings.TrimRight(strings.Repeat("?,", n), ",")
}

func toInterfaceSlice(ids []int64) []interface{} {
	res := make([]interface{}, len(ids))
	for i, id := range ids {
		res[i] = id
	}
	return res
}

// mapErr переводит ошибки драйверов в ошибки хранилища.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, mysqlErr.Message)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), "UNIQUE") {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, sqliteErr.Error())
	}

	return err
}

// mustAffect возвращает ErrNotFound, если запрос не затронул ни одной строки.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// timestamp хранится в UTC строкой "2006-01-02 15:04:05".
// mysql с parseTime отдаёт time.Time, sqlite — строку.
type nullTimestamp struct {
	Time  time.Time
	Valid bool
}

func (t *nullTimestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("неподдерживаемый тип времени %T", src)
	}
}

func (t *nullTimestamp) parse(s string) error {
	if s == "" {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}

	for _, layout := range []string{timestampLayout, time.RFC3339Nano, time.RFC3339} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = v.UTC(), true
			return nil
		}
	}

	return fmt.Errorf("некорректное время %q", s)
}

func (t nullTimestamp) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timestampArg(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}
