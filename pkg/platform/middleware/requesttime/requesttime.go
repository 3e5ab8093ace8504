// Package requesttime pins one "now" per request so windows, OTP expiry and
// audit timestamps inside a request agree with each other.
package requesttime

import (
	"net/http"
	"time"

	"unionhub/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
