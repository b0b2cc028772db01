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
	"ops-costing/internal/lib/validate"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type LineUpdateProvider interface {
	UpdateLine(ctx context.Context, l storage.Line) error
}

func UpdateLine(log *slog.Logger, provider LineUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lines.UpdateLine"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "неверный id линии", http.StatusBadRequest)
			return
		}

		var req storage.Line
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		req.ID = id

		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := provider.UpdateLine(ctx, req); err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "линия не найдена", http.StatusNotFound)
			case errors.Is(err, storage.ErrDuplicate):
				http.Error(w, "линия с таким кодом уже есть", http.StatusConflict)
			default:
				log.Error("ошибка обновления линии", slog.String("op", op), slog.Int64("id", id), logger.Err(err))
				http.Error(w, "ошибка обновления линии", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}
