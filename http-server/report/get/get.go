package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/service/costing"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage"
)

const defaultLimit = 10

type ReportProvider interface {
	DailyAttribution(ctx context.Context, from, to storage.Date) ([]production.DayAttribution, error)
	Top(ctx context.Context, p production.TopParams) ([]production.TopGroup, error)
}

func GetAttribution(log *slog.Logger, provider ReportProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.get.GetAttribution"

		from, to, err := period.FromQuery(r.URL.Query(), period.Now(loc))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		days, err := provider.DailyAttribution(ctx, from, to)
		if err != nil {
			if errors.Is(err, costing.ErrInvalidInput) {
				http.Error(w, "нужно указать обе даты from и to, не больше 366 дней", http.StatusBadRequest)
				return
			}
			log.Error("ошибка расчёта долей", slog.String("op", op), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, days)
	}
}

// GetTop: ?group_by=line|part|operator|month|shift|kind&sort_by=cost|quantity|scrap|duration|count&limit=N.
func GetTop(log *slog.Logger, provider ReportProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.get.GetTop"

		q := r.URL.Query()

		from, to, err := period.FromQuery(q, period.Now(loc))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		limit := defaultLimit
		if s := q.Get("limit"); s != "" {
			if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
				http.Error(w, "неверный limit", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		groups, err := provider.Top(ctx, production.TopParams{
			From:    from,
			To:      to,
			GroupBy: q.Get("group_by"),
			SortBy:  q.Get("sort_by"),
			Limit:   limit,
		})
		if err != nil {
			if errors.Is(err, production.ErrUnknownGroup) || errors.Is(err, costing.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("ошибка построения топа", slog.String("op", op), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, groups)
	}
}
