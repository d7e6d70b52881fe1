package i18n

import "net/http"

// Middleware negotiates the request language and stores it with WithLang.
// Sources in priority order: the "lang" query parameter, the cookie named
// cookieName (skipped when empty) and the Accept-Language header.
func Middleware(t *Translator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := []string{r.URL.Query().Get("lang")}
			if cookieName != "" {
				if c, err := r.Cookie(cookieName); err == nil {
					prefs = append(prefs, c.Value)
				}
			}
			prefs = append(prefs, r.Header.Get("Accept-Language"))

			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), t.Match(prefs...))))
		})
	}
}
