package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type CostEntryProvider interface {
	AddCostEntry(ctx context.Context, e storage.CostEntry) (int64, error)
}

type Request struct {
	ValidFrom     storage.Date    `json:"valid_from"`
	CostPerSecond decimal.Decimal `json:"total_cost_per_second"`
	Note          string          `json:"note"`
}

// AddCostEntry добавляет новую ставку в справочник линии. Старые записи
// не трогаются: стоимость прошлых периодов считается по ним.
func AddCostEntry(log *slog.Logger, provider CostEntryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost_catalog.AddCostEntry"

		lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || lineID <= 0 {
			http.Error(w, "неверный id линии", http.StatusBadRequest)
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if req.ValidFrom.IsZero() {
			http.Error(w, "не указана дата начала действия", http.StatusBadRequest)
			return
		}
		if req.CostPerSecond.IsNegative() {
			http.Error(w, "стоимость секунды не может быть отрицательной", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := provider.AddCostEntry(ctx, storage.CostEntry{
			LineID:        lineID,
			ValidFrom:     req.ValidFrom,
			CostPerSecond: req.CostPerSecond,
			Note:          req.Note,
		})
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "линия не найдена", http.StatusNotFound)
				return
			}
			log.Error("ошибка добавления стоимости", slog.String("op", op), slog.Int64("line_id", lineID), logger.Err(err))
			http.Error(w, "ошибка добавления стоимости", http.StatusInternalServerError)
			return
		}

		log.Info("добавлена стоимость линии",
			slog.Int64("line_id", lineID),
			slog.String("valid_from", req.ValidFrom.String()),
			slog.String("cost_per_second", req.CostPerSecond.String()),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}
