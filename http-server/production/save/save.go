package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"ops-costing/internal/logger"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/storage"
)

type RecordsSaver interface {
	SaveRecords(ctx context.Context, records []storage.ProductionRecord) (string, []int64, error)
}

type Response struct {
	Status  string  `json:"status"`
	BatchID string  `json:"batch_id"`
	IDs     []int64 `json:"ids"`
}

// SaveRecords принимает пачку ручных/ремонтных записей одним запросом.
func SaveRecords(log *slog.Logger, saver RecordsSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.save.SaveRecords"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var records []storage.ProductionRecord
		if err := render.DecodeJSON(r.Body, &records); err != nil {
			log.Error("неверный JSON", logger.Err(err))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		batchID, ids, err := saver.SaveRecords(ctx, records)
		if err != nil {
			if errors.Is(err, costing.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("ошибка сохранения записей выпуска", logger.Err(err))
			http.Error(w, "ошибка сохранения записей выпуска", http.StatusInternalServerError)
			return
		}

		log.Info("записи выпуска сохранены", slog.String("batch_id", batchID), slog.Int("count", len(ids)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Status: "created", BatchID: batchID, IDs: ids})
	}
}
