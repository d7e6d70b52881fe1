// Package handler turns typed request handlers into http.HandlerFunc.
//
// A HandlerFunc receives a Context and a request value decoded by binders
// from pkg/binder, and returns a Response:
//
//	type selectRequest struct {
//		CategoryID string `query:"categoryId"`
//	}
//
//	h := handler.Wrap(func(ctx handler.Context, req selectRequest) handler.Response {
//		return handler.Templ(views.SubCategoryField(req.CategoryID),
//			handler.WithTarget("#subcategory-field"))
//	}, handler.WithBinders[selectRequest](binder.Query()))
//
// Templ responses render full HTML for regular requests and datastar SSE
// element patches for datastar requests, so the same handler serves a page
// load and a partial update. JSON, Redirect, Empty and SSE cover the other
// response kinds. NewErrorHandler renders failures as a page or a toast and
// maps validator.ValidationErrors to 422.
package handler
