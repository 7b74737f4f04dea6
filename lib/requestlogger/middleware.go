package requestlogger

import (
	"net/http"
	"time"

	"github.com/nottyhq/notty/lib/logging"
	"github.com/nottyhq/notty/lib/token"
)

// loggingResponseWriter wraps a ResponseWriter to capture the status code.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(
	status int,
) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type middleware struct {
	http.Handler
}

// ServeHTTP handles incoming HTTP requests and logs them.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := logging.WithPrefix(r.Context(), token.New("req"))

	logging.Logf(ctx, "HTTP Request: method=%q url=%q remote=%q",
		r.Method, r.URL.String(), r.RemoteAddr)

	lw := &loggingResponseWriter{w, http.StatusOK}
	start := time.Now()

	m.Handler.ServeHTTP(lw, r.WithContext(ctx))

	logging.Logf(ctx, "HTTP Response: status=%d latency=%s",
		lw.status, time.Since(start))
}

// Middleware logs requests as they come in along with their response status
// and latency.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}
