package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/validate"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type OperatorCreator interface {
	CreateOperator(ctx context.Context, o storage.Operator) (int64, error)
}

func CreateOperator(log *slog.Logger, creator OperatorCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.save.CreateOperator"

		var req storage.Operator
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("неверный JSON", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := creator.CreateOperator(ctx, req)
		if err != nil {
			log.Error("ошибка создания оператора", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка создания оператора", http.StatusInternalServerError)
			return
		}

		log.Info("оператор создан", slog.Int64("id", id), slog.String("name", req.Name))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}
