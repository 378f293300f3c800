package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// APIKey requires the public api key on every request when key is set.
// The key is read from the "apikey" header or query parameter, the latter
// for websocket clients that cannot set headers.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("apikey")
			if got == "" {
				got = r.URL.Query().Get("apikey")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				gecho.Unauthorized(w).WithMessage("missing or invalid api key").Send()
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
