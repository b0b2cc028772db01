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

type ImprovementDeleter interface {
	DeleteImprovement(ctx context.Context, id int64) error
}

func DeleteImprovement(log *slog.Logger, deleter ImprovementDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.improvement.delete.DeleteImprovement"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id улучшения", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteImprovement(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "улучшение не найдено", http.StatusNotFound)
				return
			}
			log.Error("ошибка удаления улучшения", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
			http.Error(w, "ошибка удаления улучшения", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
