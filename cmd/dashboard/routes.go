package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	costdelete "ops-costing/http-server/cost-catalog/delete"
	costget "ops-costing/http-server/cost-catalog/get"
	costsave "ops-costing/http-server/cost-catalog/save"
	generate_excel "ops-costing/http-server/generate-report/generate-excel"
	impdelete "ops-costing/http-server/improvement/delete"
	impget "ops-costing/http-server/improvement/get"
	impsave "ops-costing/http-server/improvement/save"
	impupdate "ops-costing/http-server/improvement/update"
	linesget "ops-costing/http-server/lines/get"
	linessave "ops-costing/http-server/lines/save"
	linesupdate "ops-costing/http-server/lines/update"
	opget "ops-costing/http-server/operators/get"
	opsave "ops-costing/http-server/operators/save"
	opupdate "ops-costing/http-server/operators/update"
	proddelete "ops-costing/http-server/production/delete"
	prodget "ops-costing/http-server/production/get"
	prodsave "ops-costing/http-server/production/save"
	produpdate "ops-costing/http-server/production/update"
	reportget "ops-costing/http-server/report/get"
	totalsget "ops-costing/http-server/totals/get"
	totalssave "ops-costing/http-server/totals/save"
	"ops-costing/internal/config"
	"ops-costing/internal/middleware/auth"
	generate_excel2 "ops-costing/internal/service/generate-excel"
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage/mysql"
)

type services struct {
	storage     *mysql.Storage
	production  *production.Service
	improvement *improvement.Service
	excel       *generate_excel2.GenerateExcelService
	loc         *time.Location // от него считаются "сегодня" и "текущий месяц"
}

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	storage := svc.storage

	// линии и справочник стоимости
	router.Get("/api/lines", linesget.GetLines(log, storage))
	router.Get("/api/lines/{id}/costs", costget.GetCostEntries(log, storage))
	router.Get("/api/lines/{id}/costs/effective", costget.GetEffectiveCost(log, storage, svc.loc))
	router.Get("/api/operators", opget.GetOperators(log, storage))

	// ручные и ремонтные записи
	router.Get("/api/production", prodget.GetRecords(log, svc.production, svc.loc))
	router.Post("/api/production", prodsave.SaveRecords(log, svc.production))
	router.Delete("/api/production", proddelete.DeleteBatch(log, storage))
	router.Put("/api/production/{id}", produpdate.UpdateRecord(log, svc.production))
	router.Delete("/api/production/{id}", proddelete.DeleteRecord(log, storage))

	router.Get("/api/totals", totalsget.GetTotals(log, storage, svc.loc))
	router.Put("/api/totals/daily", totalssave.SaveDailyTotals(log, storage))
	router.Put("/api/totals/monthly", totalssave.SaveMonthlyTotals(log, storage))

	router.Get("/api/report/attribution", reportget.GetAttribution(log, svc.production, svc.loc))
	router.Get("/api/report/top", reportget.GetTop(log, svc.production, svc.loc))
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, svc.excel, svc.loc))

	router.Get("/api/improvements", impget.ListImprovements(log, svc.improvement))
	router.Post("/api/improvements", impsave.CreateImprovement(log, svc.improvement))
	router.Get("/api/improvements/{id}", impget.GetImprovement(log, svc.improvement))
	router.Put("/api/improvements/{id}", impupdate.UpdateImprovement(log, svc.improvement))
	router.Delete("/api/improvements/{id}", impdelete.DeleteImprovement(log, storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/lines", linessave.CreateLine(log, storage))
	adminRouter.Put("/lines/{id}", linesupdate.UpdateLine(log, storage))
	adminRouter.Post("/lines/{id}/costs", costsave.AddCostEntry(log, storage))
	adminRouter.Delete("/costs/{costID}", costdelete.DeleteCostEntry(log, storage))
	adminRouter.Post("/operators", opsave.CreateOperator(log, storage))
	adminRouter.Put("/operators", opupdate.UpdateOperators(log, storage))

	router.Mount("/api/admin", adminRouter)

	mountFrontend(router, cfg, log)

	return router
}

// mountFrontend отдаёт собранный vue. Без папки сервер работает только как API.
func mountFrontend(router *chi.Mux, cfg config.Config, log *slog.Logger) {
	frontendDir := cfg.FrontendDir
	if _, err := os.Stat(frontendDir); err != nil {
		log.Warn("папка фронтенда не найдена, статика не раздаётся", slog.String("path", frontendDir))
		return
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	index := filepath.Join(frontendDir, "index.html")

	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).Handle("/admin/*",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		}),
	)

	// SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, index)
	})
}
