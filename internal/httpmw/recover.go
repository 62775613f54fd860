package httpmw

import (
	"net/http"

	"github.com/keithlinneman/embeddir/internal/log"
	"github.com/keithlinneman/embeddir/internal/xerrors"
)

// Recover converts handler panics into a 500 response instead of killing the
// connection. onPanic, if non-nil, is invoked after logging (used to bump a
// metric).
func Recover(logger log.Logger, onPanic func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// the server handles this one itself
					panic(rec)
				}

				var err error
				if e, ok := rec.(error); ok {
					err = xerrors.EnsureTrace(e)
				} else {
					err = xerrors.Newf("panic: %v", rec)
				}

				logger.With(
					"http.request.method", r.Method,
					"url.path", r.URL.Path,
				).Error(r.Context(), err, "httpserver panic recovered")

				if onPanic != nil {
					onPanic()
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
