package i18n

import "net/http"

// Middleware picks a localizer from the request's Accept-Language header,
// falling back to the bundle's default language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		langs := []string{}
		if lang := r.URL.Query().Get("lang"); lang != "" {
			langs = append(langs, lang)
		}
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			langs = append(langs, accept)
		}
		ctx := WithLocalizer(r.Context(), NewLocalizer(langs...))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
