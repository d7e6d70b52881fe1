// Package binder decodes HTTP request data into structs.
//
// Each binder is a func(r *http.Request, v any) error reading one source:
// Form (`form` tags), Query (`query` tags) and Signals (datastar signals,
// `json` tags). Binders return ErrNotApplicable when the request does not
// carry their source, so several can be chained by handler.Wrap.
//
//	type selectRequest struct {
//		CategoryID string `query:"categoryId" form:"categoryId" json:"categoryId"`
//	}
//
// Supported field kinds are strings, integers, floats, booleans, pointers
// to those and slices of those.
package binder
