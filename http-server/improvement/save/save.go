package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/logger"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/storage"
)

type ImprovementCreator interface {
	Create(ctx context.Context, imp storage.Improvement) (improvement.View, error)
}

func CreateImprovement(log *slog.Logger, creator ImprovementCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.improvement.save.CreateImprovement"

		var req storage.Improvement
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		req.ID = 0

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		v, err := creator.Create(ctx, req)
		if err != nil {
			if errors.Is(err, costing.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("ошибка сохранения улучшения", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка сохранения улучшения", http.StatusInternalServerError)
			return
		}

		log.Info("улучшение сохранено",
			slog.Int64("id", v.ID),
			slog.String("cost_snapshot", v.CostSnapshot.String()),
			slog.String("snapshot_date", v.SnapshotDate.String()),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, v)
	}
}
