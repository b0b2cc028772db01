package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"ops-costing/internal/lib/period"
	"ops-costing/internal/logger"
	"ops-costing/internal/storage"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, from, to storage.Date) ([]byte, error)
}

// Scheduler раз в месяц выгружает отчёт за прошлый месяц в каталог.
type Scheduler struct {
	cron *cron.Cron
	gen  ExcelGenerator
	dir  string
	spec string
	log  *slog.Logger
	now  func() time.Time
}

func New(gen ExcelGenerator, dir, spec string, loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		gen:  gen,
		dir:  dir,
		spec: spec,
		log:  log,
		now:  func() time.Time { return time.Now().In(loc) },
	}
}

func (s *Scheduler) Start() error {
	const op = "scheduler.Start"

	if _, err := s.cron.AddFunc(s.spec, s.monthlyReport); err != nil {
		return fmt.Errorf("%s: неверное расписание %q: %w", op, s.spec, err)
	}

	s.log.Info("планировщик отчётов запущен", slog.String("cron", s.spec), slog.String("dir", s.dir))
	s.cron.Start()

	return nil
}

// Stop ждёт завершения выгрузки, если она уже идёт.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()

	select {
	case <-stopped.Done():
	case <-ctx.Done():
		s.log.Warn("выгрузка отчёта не успела завершиться")
	}
}

func (s *Scheduler) monthlyReport() {
	const op = "scheduler.monthlyReport"

	log := s.log.With(slog.String("op", op))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	path, err := s.WriteMonth(ctx, s.now())
	if err != nil {
		log.Error("ошибка выгрузки месячного отчёта", logger.Err(err))
		return
	}

	log.Info("месячный отчёт сохранён", slog.String("path", path))
}

// WriteMonth пишет книгу за месяц, предшествующий now, и возвращает путь к файлу.
func (s *Scheduler) WriteMonth(ctx context.Context, now time.Time) (string, error) {
	from, to := period.PreviousMonth(now)

	data, err := s.gen.GenerateExcel(ctx, from, to)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("ошибка создания каталога отчётов: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("costing_%s.xlsx", from.Format("2006-01")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("ошибка записи отчёта: %w", err)
	}

	return path, nil
}
