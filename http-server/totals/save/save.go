package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/validate"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type TotalsSaver interface {
	SaveDailyTotals(ctx context.Context, totals []storage.DailyTotal) error
	SaveMonthlyTotals(ctx context.Context, totals []storage.MonthlyTotal) error
}

// decodeOneOrMany принимает и один объект, и массив.
func decodeOneOrMany[T any](r io.Reader) ([]T, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []T
		err := json.Unmarshal(body, &list)
		return list, err
	}

	var one T
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func checkAll[T any](items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("пустой список")
	}
	for i, it := range items {
		if err := validate.Struct(it); err != nil {
			return fmt.Errorf("строка %d: %w", i+1, err)
		}
	}
	return nil
}

// SaveDailyTotals: upsert заявленного выпуска по дням.
func SaveDailyTotals(log *slog.Logger, saver TotalsSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.totals.save.SaveDailyTotals"

		totals, err := decodeOneOrMany[storage.DailyTotal](r.Body)
		if err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if err := checkAll(totals); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveDailyTotals(ctx, totals); err != nil {
			log.Error("ошибка сохранения дневного выпуска", slog.String("op", op), logger.Err(err))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"status": "saved", "saved": len(totals)})
	}
}

func SaveMonthlyTotals(log *slog.Logger, saver TotalsSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.totals.save.SaveMonthlyTotals"

		totals, err := decodeOneOrMany[storage.MonthlyTotal](r.Body)
		if err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if err := checkAll(totals); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveMonthlyTotals(ctx, totals); err != nil {
			log.Error("ошибка сохранения месячного выпуска", slog.String("op", op), logger.Err(err))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"status": "saved", "saved": len(totals)})
	}
}
