package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/validate"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type LineCreateProvider interface {
	CreateLine(ctx context.Context, l storage.Line) (int64, error)
}

func CreateLine(log *slog.Logger, provider LineCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lines.CreateLine"

		var req storage.Line
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := provider.CreateLine(ctx, req)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				http.Error(w, "линия с таким кодом уже есть", http.StatusConflict)
				return
			}
			log.Error("ошибка создания линии", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка создания линии", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}
