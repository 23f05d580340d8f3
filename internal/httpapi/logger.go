package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request through logger.
func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&logFormatter{logger: logger})
}

type logFormatter struct {
	logger *slog.Logger
}

func (l *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []any{}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}
	attrs = append(attrs, slog.String("from", r.RemoteAddr))

	return &logEntry{
		logger: l.logger,
		attrs:  attrs,
		msg:    fmt.Sprintf("%s %s", r.Method, r.RequestURI),
	}
}

type logEntry struct {
	logger *slog.Logger
	attrs  []any
	msg    string
}

func (l *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {
	attrs := append(l.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.String("elapsed", elapsed.String()),
	)
	if status >= 500 {
		l.logger.Error(l.msg, attrs...)
		return
	}
	l.logger.Debug(l.msg, attrs...)
}

func (l *logEntry) Panic(v any, stack []byte) {
	l.logger.Error("http handler panic", "panic", v, "stack", string(stack))
}
