package binder

import "net/http"

// Query binds URL query parameters to `query:"name"` fields.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
