package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// SetLogger задаёт логгер для мидлвари логирования.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.data.size += n
	return n, err
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
	w.data.status = code
}

// WithLogging пишет в лог метод, путь, статус, размер ответа и длительность.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{status: http.StatusOK}
		next.ServeHTTP(&loggingResponseWriter{ResponseWriter: w, data: data}, r)

		logger.Infow("HTTP request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
