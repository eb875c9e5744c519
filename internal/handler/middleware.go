package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/EpicMandM/travel-planner/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestID tags each request with an id (reusing an incoming
// X-Request-ID) and logs one access line per request.
func WithRequestID(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		log.Info("HTTP request",
			logger.RequestID(id),
			logger.F("METHOD", r.Method),
			logger.Path(r.URL.Path),
			logger.Status(http.StatusText(rec.status)),
			logger.F("CODE", rec.status),
			logger.F("DURATION", time.Since(start).Round(time.Millisecond)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
