package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type TotalsProvider interface {
	GetDailyTotals(ctx context.Context, from, to storage.Date) ([]storage.DailyTotal, error)
	GetMonthlyTotals(ctx context.Context, from, to storage.Date) ([]storage.MonthlyTotal, error)
}

type Response struct {
	From    storage.Date           `json:"from"`
	To      storage.Date           `json:"to"`
	Daily   []storage.DailyTotal   `json:"daily"`
	Monthly []storage.MonthlyTotal `json:"monthly"`
}

func GetTotals(log *slog.Logger, provider TotalsProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.totals.get.GetTotals"

		from, to, err := period.FromQuery(r.URL.Query(), period.Now(loc))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp := Response{From: from, To: to}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			resp.Daily, err = provider.GetDailyTotals(gCtx, from, to)
			return err
		})
		g.Go(func() error {
			var err error
			resp.Monthly, err = provider.GetMonthlyTotals(gCtx, from, to)
			return err
		})

		if err := g.Wait(); err != nil {
			log.Error("ошибка получения заявленного выпуска", slog.String("op", op), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, resp)
	}
}
