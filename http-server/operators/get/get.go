package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type Operators interface {
	GetOperators(ctx context.Context, activeOnly bool) ([]storage.Operator, error)
}

// GetOperators отдаёт активных операторов, с ?all=true отдаёт всех.
func GetOperators(log *slog.Logger, operators Operators) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.get.GetOperators"

		activeOnly := r.URL.Query().Get("all") != "true"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := operators.GetOperators(ctx, activeOnly)
		if err != nil {
			log.With(slog.String("op", op), logger.Err(err)).Error("ошибка при получении операторов")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
