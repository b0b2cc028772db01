package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type LinesProvider interface {
	GetLines(ctx context.Context) ([]storage.Line, error)
}

func GetLines(log *slog.Logger, provider LinesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lines.GetLines"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		lines, err := provider.GetLines(ctx)
		if err != nil {
			log.Error("ошибка получения линий", logger.Err(err))
			http.Error(w, "ошибка получения линий", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, lines)
	}
}
