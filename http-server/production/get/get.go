package get

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

var ErrUnknownKind = errors.New("неизвестный вид записи")

type RecordsProvider interface {
	Records(ctx context.Context, filter storage.ProductionFilter) ([]storage.ProductionCost, error)
}

// ParseFilter разбирает from/to/line_id/kind. Без дат берётся месяц, в котором now.
func ParseFilter(r *http.Request, now time.Time) (storage.ProductionFilter, error) {
	q := r.URL.Query()

	from, to, err := period.FromQuery(q, now)
	if err != nil {
		return storage.ProductionFilter{}, err
	}

	filter := storage.ProductionFilter{From: from, To: to}

	if s := q.Get("line_id"); s != "" {
		if filter.LineID, err = strconv.ParseInt(s, 10, 64); err != nil {
			return storage.ProductionFilter{}, fmt.Errorf("неверный line_id: %w", err)
		}
	}

	switch kind := storage.Kind(q.Get("kind")); kind {
	case "", storage.KindManual, storage.KindRepair:
		filter.Kind = kind
	default:
		return storage.ProductionFilter{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return filter, nil
}

func GetRecords(log *slog.Logger, provider RecordsProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.get.GetRecords"

		filter, err := ParseFilter(r, period.Now(loc))
		if err != nil {
			http.Error(w, "неверные параметры фильтра", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		records, err := provider.Records(ctx, filter)
		if err != nil {
			log.Error("ошибка получения записей выпуска", slog.String("op", op), logger.Err(err))
			http.Error(w, "ошибка получения записей выпуска", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, records)
	}
}
