package update

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
	"ops-costing/internal/service/costing"
	"ops-costing/internal/storage"
)

type RecordUpdater interface {
	UpdateRecord(ctx context.Context, r storage.ProductionRecord) error
}

func UpdateRecord(log *slog.Logger, updater RecordUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.update.UpdateRecord"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id записи", http.StatusBadRequest)
			return
		}

		var req storage.ProductionRecord
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		req.ID = id

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateRecord(ctx, req); err != nil {
			switch {
			case errors.Is(err, costing.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "запись не найдена", http.StatusNotFound)
			default:
				log.Error("ошибка обновления записи выпуска", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
				http.Error(w, "ошибка обновления записи выпуска", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]any{"status": "updated", "id": id})
	}
}
