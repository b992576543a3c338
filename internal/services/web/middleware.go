package web

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/treeview/internal/metrics"
)

const unmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (recorder *statusRecorder) WriteHeader(statusCode int) {
	recorder.statusCode = statusCode
	recorder.ResponseWriter.WriteHeader(statusCode)
}

// instrument logs every request and records its metrics under the matched route pattern.
func (server Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startedAt := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, request)
		duration := time.Since(startedAt)

		route := request.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequest(request.Method, route, recorder.statusCode, duration)
		server.config.Logger.Debug(logMessageRequest,
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.Int("status", recorder.statusCode),
			zap.Duration("duration", duration),
		)
	})
}
