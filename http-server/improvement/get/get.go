package get

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
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/storage"
)

type ImprovementProvider interface {
	Get(ctx context.Context, id int64) (improvement.View, error)
	List(ctx context.Context, filter storage.ImprovementFilter) ([]improvement.View, error)
}

func GetImprovement(log *slog.Logger, provider ImprovementProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.improvement.get.GetImprovement"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id улучшения", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		v, err := provider.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "улучшение не найдено", http.StatusNotFound)
				return
			}
			log.Error("ошибка получения улучшения", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, v)
	}
}

// ListImprovements: список с фильтрами ?line_id= и ?kind=.
func ListImprovements(log *slog.Logger, provider ImprovementProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.improvement.get.ListImprovements"

		q := r.URL.Query()

		var filter storage.ImprovementFilter
		if s := q.Get("line_id"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				http.Error(w, "неверный line_id", http.StatusBadRequest)
				return
			}
			filter.LineID = id
		}
		filter.Kind = storage.ImprovementKind(q.Get("kind"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := provider.List(ctx, filter)
		if err != nil {
			log.Error("ошибка получения улучшений", slog.String("op", op), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
