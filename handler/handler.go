package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/depselect/pkg/binder"
)

// HandlerFunc handles a request already decoded into R.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes part of a request into v. Returning binder.ErrNotApplicable
// skips the binder.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes a response for a binding or rendering failure.
type ErrorHandler func(ctx Context, err error)

// Decorator wraps a HandlerFunc. The first decorator given to Wrap is the outermost.
type Decorator[R any] func(HandlerFunc[R]) HandlerFunc[R]

type wrapConfig[R any] struct {
	binders      []Bind
	errorHandler ErrorHandler
	decorators   []Decorator[R]
}

type WrapOption[R any] func(*wrapConfig[R])

// WithBinders appends binders applied in order to the same request value.
func WithBinders[R any](binders ...Bind) WrapOption[R] {
	return func(c *wrapConfig[R]) { c.binders = append(c.binders, binders...) }
}

func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithDecorators[R any](decorators ...Decorator[R]) WrapOption[R] {
	return func(c *wrapConfig[R]) { c.decorators = append(c.decorators, decorators...) }
}

// DefaultErrorHandler answers with the HTTPError status and key, or 500.
func DefaultErrorHandler(ctx Context, err error) {
	info := Classify(err)
	http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
}

// Wrap adapts h to http.HandlerFunc: it binds the request, runs the
// decorated handler and renders its response.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	cfg := &wrapConfig[R]{errorHandler: DefaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, errors.Join(ErrBadRequest, err))
				return
			}
		}

		resp := final(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
