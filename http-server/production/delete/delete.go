package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type RecordDeleter interface {
	DeleteProductionRecord(ctx context.Context, id int64) error
	DeleteProductionBatch(ctx context.Context, date storage.Date, kind storage.Kind) (int64, error)
}

func DeleteRecord(log *slog.Logger, deleter RecordDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.delete.DeleteRecord"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id записи", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteProductionRecord(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "запись не найдена", http.StatusNotFound)
				return
			}
			log.Error("ошибка удаления записи выпуска", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
			http.Error(w, "ошибка удаления записи выпуска", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}

// DeleteBatch удаляет все записи одного вида за дату: ?date=YYYY-MM-DD&kind=manual|repair.
func DeleteBatch(log *slog.Logger, deleter RecordDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.delete.DeleteBatch"

		q := r.URL.Query()

		date, err := storage.ParseDate(q.Get("date"))
		if err != nil {
			http.Error(w, "неверная дата, ожидается YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		kind := storage.Kind(q.Get("kind"))
		if kind != storage.KindManual && kind != storage.KindRepair {
			http.Error(w, "kind должен быть manual или repair", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		n, err := deleter.DeleteProductionBatch(ctx, date, kind)
		if err != nil {
			log.Error("ошибка удаления записей за дату", slog.String("op", op), slog.String("date", date.String()), logger.Err(err))
			http.Error(w, "ошибка удаления записей", http.StatusInternalServerError)
			return
		}

		log.Info("удалены записи за дату", slog.String("date", date.String()), slog.String("kind", string(kind)), slog.Int64("deleted", n))

		render.JSON(w, r, map[string]any{"status": "deleted", "deleted": n})
	}
}
