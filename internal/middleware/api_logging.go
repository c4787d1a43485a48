package middleware

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"pbm-backend/internal/monitoring"

	"github.com/google/uuid"
)

// RequestLogger logs each API request with a request ID and records its
// latency in the metrics registry.
type RequestLogger struct {
	metrics *monitoring.Metrics
}

// responseWriter captures status code and size for the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Hijack hands the underlying connection through so websocket upgrades
// work behind the access log.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func NewRequestLogger(metrics *monitoring.Metrics) *RequestLogger {
	return &RequestLogger{metrics: metrics}
}

func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		if m.metrics != nil {
			m.metrics.ObserveRequest(r.Method, sanitizePath(r.URL.Path), wrapped.statusCode, duration)
		}

		log.Printf("%s %s %s -> %d (%d bytes, %s, id=%s)",
			clientIP(r), r.Method, sanitizePath(r.URL.Path),
			wrapped.statusCode, wrapped.bytesWritten, duration.Round(time.Millisecond), requestID)
	})
}

func shouldSkipLogging(path string) bool {
	for _, skip := range []string{"/uploads/", "/health", "/metrics", "/favicon.ico"} {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// sanitizePath strips query strings and truncates pathological paths
// before they reach logs or metric labels.
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 200 {
		path = path[:200]
	}
	return path
}
