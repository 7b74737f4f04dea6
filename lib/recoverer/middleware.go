package recoverer

import (
	"net/http"

	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/logging"
	"github.com/nottyhq/notty/lib/respond"
)

type middleware struct {
	http.Handler
}

// ServeHTTP handles incoming HTTP requests and recovers from panics raised
// underneath, responding with an internal error.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()

	defer func() {
		if rcv := recover(); rcv != nil {
			logging.Logf(ctx, "Recovered panic: %v", rcv)
			if err, ok := rcv.(error); ok {
				respond.Error(ctx, w, errors.Trace(err))
			} else {
				respond.Error(ctx, w,
					errors.Trace(errors.Newf("Panic: %v", rcv)))
			}
		}
	}()

	m.Handler.ServeHTTP(w, r)
}

// Middleware recovers from panics and responds with an internal error.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}
