package middleware

import "net/http"

// NoStore marks responses as uncacheable by browsers and intermediaries.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("Surrogate-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
