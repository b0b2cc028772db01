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
	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage"
)

type CostCatalogProvider interface {
	GetCostEntries(ctx context.Context, lineID int64) ([]storage.CostEntry, error)
}

type EffectiveCostResponse struct {
	Date       storage.Date       `json:"date"`
	Entry      *storage.CostEntry `json:"entry"`
	Fallback   bool               `json:"fallback"`
	CostStatus costing.CostStatus `json:"cost_status"`
}

func GetCostEntries(log *slog.Logger, provider CostCatalogProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost_catalog.GetCostEntries"

		lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || lineID <= 0 {
			http.Error(w, "неверный id линии", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := provider.GetCostEntries(ctx, lineID)
		if err != nil {
			log.Error("ошибка получения справочника стоимости", slog.String("op", op), slog.Int64("line_id", lineID), logger.Err(err))
			http.Error(w, "ошибка получения справочника стоимости", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, entries)
	}
}

// GetEffectiveCost: какая стоимость секунды действует на линии в дату ?date=.
// Без даты берётся сегодняшний день по часовому поясу завода.
func GetEffectiveCost(log *slog.Logger, provider CostCatalogProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost_catalog.GetEffectiveCost"

		lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || lineID <= 0 {
			http.Error(w, "неверный id линии", http.StatusBadRequest)
			return
		}

		date := storage.DateOf(period.Now(loc))
		if s := r.URL.Query().Get("date"); s != "" {
			if date, err = storage.ParseDate(s); err != nil {
				http.Error(w, "неверная дата, ожидается YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := provider.GetCostEntries(ctx, lineID)
		if err != nil {
			log.Error("ошибка получения справочника стоимости", slog.String("op", op), slog.Int64("line_id", lineID), logger.Err(err))
			http.Error(w, "ошибка получения справочника стоимости", http.StatusInternalServerError)
			return
		}

		resp := EffectiveCostResponse{Date: date, CostStatus: costing.CostDefined}

		entry, fallback, err := production.EffectiveCost(entries, date)
		switch {
		case errors.Is(err, costing.ErrNoData):
			resp.CostStatus = costing.CostUndefined
		case err != nil:
			log.Error("ошибка выбора стоимости", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка выбора стоимости", http.StatusInternalServerError)
			return
		default:
			resp.Entry = &entry
			resp.Fallback = fallback
		}

		render.JSON(w, r, resp)
	}
}
