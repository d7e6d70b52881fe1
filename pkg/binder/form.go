package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// DefaultMaxMemory bounds the in-memory part of multipart forms.
const DefaultMaxMemory = 10 << 20

// Form binds urlencoded and multipart form values to `form:"name"` fields.
// Requests with any other content type yield ErrNotApplicable.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return ErrNotApplicable
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			return bindValues(v, "form", r.PostForm, ErrInvalidForm)
		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			return bindValues(v, "form", r.MultipartForm.Value, ErrInvalidForm)
		default:
			return ErrNotApplicable
		}
	}
}
