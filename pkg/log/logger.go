package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// errFmtHandler expands error attributes into message plus stacktrace
// so that cockroachdb/errors stack information survives JSON encoding.
type errFmtHandler struct {
	slog.Handler
}

// WrapByErrFmtHandler wraps a handler with error-formatting behavior.
func WrapByErrFmtHandler(h slog.Handler) slog.Handler {
	return &errFmtHandler{Handler: h}
}

func (h *errFmtHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok && err != nil {
				// %+v renders the cockroachdb/errors stack trace.
				out.AddAttrs(
					slog.String(ErrAttrKey, err.Error()),
					slog.String(StacktraceAttrKey, fmt.Sprintf("%+v", err)),
				)
				return true
			}
		}
		out.AddAttrs(attr)
		return true
	})
	return h.Handler.Handle(ctx, out)
}

func (h *errFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errFmtHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *errFmtHandler) WithGroup(name string) slog.Handler {
	return &errFmtHandler{Handler: h.Handler.WithGroup(name)}
}
