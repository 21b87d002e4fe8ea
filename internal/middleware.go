package contact

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "0")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger tags every request with an ID, stores a request-scoped logger
// in its context, recovers panics and logs the outcome once the handler returns.
func RequestLogger(baseLogger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		requestLogger := baseLogger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", clientIP(r),
		)

		ctx := ContextWithLogger(r.Context(), requestLogger)
		r = r.WithContext(ctx)

		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				requestLogger.Error("panic recovered",
					"err", rec,
					"type", fmt.Sprintf("%T", rec),
					"stack", string(debug.Stack()),
				)
				lrw.WriteHeader(http.StatusInternalServerError)
			}
			duration := time.Since(start)
			level := slog.LevelInfo
			switch {
			case lrw.status >= 500:
				level = slog.LevelError
			case lrw.status >= 400:
				level = slog.LevelWarn
			}
			requestLogger.Log(ctx, level, "request completed",
				"status", lrw.status,
				"duration_ms", duration.Milliseconds(),
				"bytes", lrw.length,
			)
		}()

		next.ServeHTTP(lrw, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	length int
	wrote  bool
}

func (lrw *loggingResponseWriter) WriteHeader(status int) {
	if !lrw.wrote {
		lrw.ResponseWriter.WriteHeader(status)
		lrw.wrote = true
		lrw.status = status
	}
}

func (lrw *loggingResponseWriter) Write(p []byte) (int, error) {
	if !lrw.wrote {
		lrw.WriteHeader(http.StatusOK)
	}
	n, err := lrw.ResponseWriter.Write(p)
	lrw.length += n
	return n, err
}
