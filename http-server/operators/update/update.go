package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/validate"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type OperatorsUpdater interface {
	UpdateOperators(ctx context.Context, ops []storage.Operator) error
}

// UpdateOperators: массовое редактирование из админки, всё или ничего.
func UpdateOperators(log *slog.Logger, updater OperatorsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.update.UpdateOperators"

		var ops []storage.Operator
		if err := render.DecodeJSON(r.Body, &ops); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		if len(ops) == 0 {
			http.Error(w, "пустой список операторов", http.StatusBadRequest)
			return
		}

		for i, o := range ops {
			if o.ID <= 0 {
				http.Error(w, fmt.Sprintf("оператор %d: не указан id", i), http.StatusBadRequest)
				return
			}
			if err := validate.Struct(o); err != nil {
				http.Error(w, fmt.Sprintf("оператор %d: %s", i, err), http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateOperators(ctx, ops); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "оператор не найден", http.StatusNotFound)
				return
			}
			log.Error("ошибка обновления операторов", slog.String("op", op), logger.Err(err))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"status": "updated", "updated": len(ops)})
	}
}
