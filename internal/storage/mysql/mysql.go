package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
	"ops-costing/internal/config"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

const timestampLayout = "2006-01-02 15:04:05"

type Storage struct {
	db *sql.DB
}

func New(cfg config.DB) (*Storage, error) {
	const op = "storage.mysql.New"

	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg.SQLitePath)
	default:
		db, err = sql.Open("mysql", dsn(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// mysql в docker-compose поднимается дольше приложения
	err = backoff.Retry(
		func() error { return db.PingContext(ctx) },
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), cfg.Retries),
			ctx,
		),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: БД недоступна: %w", op, err)
	}

	if cfg.Driver == "sqlite" {
		if err := migrateSQLite(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{db: db}, nil
}

// NewWithDB оборачивает уже открытое соединение (тесты, утилиты).
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func dsn(cfg config.DB) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	// UPDATE без изменений должен считаться найденной строкой
	c.ClientFoundRows = true

	return c.FormatDSN()
}

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("ошибка создания каталога БД: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// одна in-memory база живёт только в рамках одного соединения
	db.SetMaxOpenConns(1)

	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("ошибка включения foreign_keys: %w", err)
	}

	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка создания схемы: %w", err)
		}
	}

	return nil
}
