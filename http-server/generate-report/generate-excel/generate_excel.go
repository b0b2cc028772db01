package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, from, to storage.Date) ([]byte, error)
}

// GenerateReportExcel отдаёт книгу за период ?from=&to= (по умолчанию текущий месяц).
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		from, to, err := period.FromQuery(r.URL.Query(), period.Now(loc))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if from.IsZero() || to.IsZero() {
			http.Error(w, "нужно указать обе даты from и to", http.StatusBadRequest)
			return
		}

		// на Excel можно побольше времени
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, from, to)
		if err != nil {
			log.Error("ошибка формирования Excel", slog.String("op", op), logger.Err(err))
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("costing_%s_%s.xlsx", from, to)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Warn("не удалось отдать файл", slog.String("op", op), logger.Err(err))
		}
	}
}
