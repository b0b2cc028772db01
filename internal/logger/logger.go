package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Setup собирает логгер по окружению. Всё пишется в out, ошибки
// дополнительно дописываются в файл errorLogPath. Возвращаемую функцию
// нужно вызвать при остановке, чтобы закрыть файл.
func Setup(env, errorLogPath string, out io.Writer) (*slog.Logger, func()) {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}

	var core slog.Handler
	switch env {
	case EnvDev:
		core = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		core = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if errorLogPath == "" {
		return slog.New(core), func() {}
	}

	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := slog.New(core)
		log.Warn("не удалось открыть файл для ошибок", slog.String("path", errorLogPath), Err(err))
		return log, func() {}
	}

	handler := NewDualHandler(core, slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}))

	return slog.New(handler), func() { _ = errorFile.Close() }
}

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// DualHandler пишет всё в основной handler, а записи уровня Error и выше
// ещё и в errorHandler.
type DualHandler struct {
	core   slog.Handler
	errors slog.Handler
}

func NewDualHandler(core, errors slog.Handler) *DualHandler {
	return &DualHandler{core: core, errors: errors}
}

func (h *DualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.core.Enabled(ctx, lvl) || h.errors.Enabled(ctx, lvl)
}

func (h *DualHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.core.Enabled(ctx, r.Level) {
		if err := h.core.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errors.Enabled(ctx, r.Level) {
		// ошибка записи в файл не должна ронять основной лог
		_ = h.errors.Handle(ctx, r.Clone())
	}

	return nil
}

func (h *DualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DualHandler{
		core:   h.core.WithAttrs(attrs),
		errors: h.errors.WithAttrs(attrs),
	}
}

func (h *DualHandler) WithGroup(name string) slog.Handler {
	return &DualHandler{
		core:   h.core.WithGroup(name),
		errors: h.errors.WithGroup(name),
	}
}
