package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/solarwerk/pv-planner/pkg/requestid"
)

// Logger returns a middleware that logs every completed HTTP request with zap.
// Health checks are logged at debug level.
func Logger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			query := r.URL.RawQuery

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("request_id", requestid.FromRequest(r)),
				zap.Int("status", ww.Status()),
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.String("query", query),
				zap.String("ip", clientIP(r)),
				zap.String("user-agent", r.UserAgent()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			}

			logger := zap.L().Named("http")
			msg := "Request completed"
			switch {
			case ww.Status() >= 500:
				logger.Error(msg, fields...)
			case ww.Status() >= 400:
				logger.Warn(msg, fields...)
			case r.Method == http.MethodGet && path == "/health":
				logger.Debug(msg, fields...)
			default:
				logger.Info(msg, fields...)
			}
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
