package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// Recoverer turns a panicking handler into a 500 and logs the stack.
func Recoverer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slogx.FromContext(r.Context()).Error("panic serving request",
					"route", routeOf(r),
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
