package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// LoggingMiddleware logs every request and counts it by method and status. State polling and
// metric scrapes are logged at debug level only.
func LoggingMiddleware(log *logger.Logger, metrics *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrappedWriter, r)

			metrics.ObserveHTTP(r.Method, wrappedWriter.statusCode)
			fields := logrus.Fields{
				"status":   wrappedWriter.statusCode,
				"duration": time.Since(started).String(),
			}
			message := fmt.Sprintf("Request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			if isQuiet(r.URL.Path) {
				log.Debug(message, fields)
				return
			}
			log.Info(message, fields)
		})
	}
}

func isQuiet(path string) bool {
	return strings.HasSuffix(path, "/state") || path == "/metrics" || path == "/healthCheck"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
