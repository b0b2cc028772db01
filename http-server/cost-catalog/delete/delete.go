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

type CostEntryDeleter interface {
	DeleteCostEntry(ctx context.Context, id int64) error
}

func DeleteCostEntry(log *slog.Logger, deleter CostEntryDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost_catalog.DeleteCostEntry"

		id, err := strconv.ParseInt(chi.URLParam(r, "costID"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id записи", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteCostEntry(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "запись не найдена", http.StatusNotFound)
				return
			}
			log.Error("ошибка удаления стоимости", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
			http.Error(w, "ошибка удаления стоимости", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
