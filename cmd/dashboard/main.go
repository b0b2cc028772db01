package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ops-costing/internal/config"
	"ops-costing/internal/logger"
	"ops-costing/internal/scheduler"
	generate_excel "ops-costing/internal/service/generate-excel"
	"ops-costing/internal/service/improvement"
	"ops-costing/internal/service/production"
	"ops-costing/internal/storage/mysql"
)

func main() {
	cfg := config.MustConfig()

	log, closeLog := logger.Setup(cfg.Env, cfg.ErrorLogPath, os.Stdout)
	defer closeLog()

	loc, err := cfg.Plant.Location()
	if err != nil {
		log.Error("неверный часовой пояс завода", logger.Err(err))
		os.Exit(1)
	}

	storage, err := mysql.New(cfg.DB)
	if err != nil {
		log.Error("failed to open db", logger.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("БД подключена", slog.String("driver", cfg.DB.Driver))

	productionService := production.NewService(storage, loc)
	improvementService := improvement.NewService(storage)
	excelService := generate_excel.NewGenerateService(productionService, cfg.Plant.Currency)

	reports := scheduler.New(excelService, cfg.Report.Dir, cfg.Report.Cron, loc, log)
	if err := reports.Start(); err != nil {
		log.Error("планировщик отчётов не запущен", logger.Err(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: routes(*cfg, log, services{
			storage:     storage,
			production:  productionService,
			improvement: improvementService,
			excel:       excelService,
			loc:         loc,
		}),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: 2 * cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("ошибка остановки сервера", logger.Err(err))
	}
	reports.Stop(shutdownCtx)

	log.Info("server stopped")
}
