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
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/storage"
)

type ImprovementUpdater interface {
	Update(ctx context.Context, imp storage.Improvement, refresh bool) (improvement.View, error)
}

type Request struct {
	storage.Improvement
	// RefreshSnapshot пересчитывает снимок стоимости по текущему справочнику.
	RefreshSnapshot bool `json:"refresh_snapshot"`
}

func UpdateImprovement(log *slog.Logger, updater ImprovementUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.improvement.update.UpdateImprovement"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id улучшения", http.StatusBadRequest)
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		req.ID = id

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		v, err := updater.Update(ctx, req.Improvement, req.RefreshSnapshot)
		if err != nil {
			switch {
			case errors.Is(err, costing.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "улучшение не найдено", http.StatusNotFound)
			default:
				log.Error("ошибка обновления улучшения", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
				http.Error(w, "ошибка обновления улучшения", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, v)
	}
}
