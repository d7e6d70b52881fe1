package binder

import "errors"

var (
	// ErrNotApplicable tells handler.Wrap to skip a binder for this request.
	ErrNotApplicable = errors.New("binder: not applicable to request")

	ErrInvalidTarget  = errors.New("binder: target must be a non-nil pointer to struct")
	ErrInvalidForm    = errors.New("binder: failed to parse form data")
	ErrInvalidQuery   = errors.New("binder: failed to parse query parameters")
	ErrInvalidSignals = errors.New("binder: failed to read datastar signals")
)
