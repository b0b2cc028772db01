// Package period разбирает диапазоны дат из query-параметров отчётов.
package period

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"ops-costing/internal/storage"
)

// MaxDays: самый длинный период отчёта, который принимает API.
const MaxDays = 366

var (
	ErrBadRange     = errors.New("дата from позже даты to")
	ErrRangeTooLong = fmt.Errorf("период длиннее %d дней", MaxDays)
)

// Now: текущее время в часовом поясе завода. nil означает локальный пояс сервера.
func Now(loc *time.Location) time.Time {
	if loc == nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// FromQuery читает from/to (YYYY-MM-DD). Если оба пусты, берётся текущий месяц
// относительно now.
func FromQuery(q url.Values, now time.Time) (storage.Date, storage.Date, error) {
	fromStr, toStr := q.Get("from"), q.Get("to")

	if fromStr == "" && toStr == "" {
		from, to := Month(now.Year(), now.Month())
		return from, to, nil
	}

	var from, to storage.Date
	var err error

	if fromStr != "" {
		if from, err = parseBound(fromStr); err != nil {
			return storage.Date{}, storage.Date{}, fmt.Errorf("неверный параметр from: %w", err)
		}
	}
	if toStr != "" {
		if to, err = parseBound(toStr); err != nil {
			return storage.Date{}, storage.Date{}, fmt.Errorf("неверный параметр to: %w", err)
		}
	}

	if !from.IsZero() && !to.IsZero() {
		if err := Check(from, to); err != nil {
			return storage.Date{}, storage.Date{}, err
		}
	}

	return from, to, nil
}

// Check проверяет закрытый период: from не позже to и не больше MaxDays дней.
func Check(from, to storage.Date) error {
	if from.After(to.Time) {
		return ErrBadRange
	}
	if span(from, to) > MaxDays {
		return ErrRangeTooLong
	}
	return nil
}

// 0001-01-01 совпадает с нулевой датой и дальше считалась бы "не задана".
func parseBound(s string) (storage.Date, error) {
	d, err := storage.ParseDate(s)
	if err != nil {
		return storage.Date{}, err
	}
	if d.IsZero() {
		return storage.Date{}, fmt.Errorf("дата %q вне допустимого диапазона", s)
	}
	return d, nil
}

func span(from, to storage.Date) int {
	return int(to.Sub(from.Time).Hours()/24) + 1
}

// Month: первый и последний день месяца.
func Month(year int, month time.Month) (storage.Date, storage.Date) {
	first := storage.NewDate(year, month, 1)
	return first, storage.DateOf(first.AddDate(0, 1, -1))
}

// PreviousMonth: месяц перед тем, в котором находится now.
func PreviousMonth(now time.Time) (storage.Date, storage.Date) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Month(prev.Year(), prev.Month())
}

// Days перечисляет дни от from до to включительно.
func Days(from, to storage.Date) []storage.Date {
	if from.IsZero() || to.IsZero() || from.After(to.Time) {
		return nil
	}

	days := make([]storage.Date, 0, span(from, to))
	for d := from; !d.After(to.Time); d = storage.DateOf(d.AddDate(0, 0, 1)) {
		days = append(days, d)
	}

	return days
}
