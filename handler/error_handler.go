package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/requestid"
	"github.com/dmitrymomot/depselect/pkg/validator"
)

// ErrorInfo is the client-facing classification of an error.
type ErrorInfo struct {
	StatusCode int
	Key        string
	Message    string
	LogLevel   slog.Level
}

// Classify maps err to a status code and message. Unknown errors become 500
// without leaking their text.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Key:        ErrInternalServerError.Key,
		Message:    "an error occurred processing your request",
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		info.Key = httpErr.Key
		info.Message = httpErr.Key
	}
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		info.StatusCode = http.StatusUnprocessableEntity
		info.Key = "validation_error"
		parts := make([]string, 0, len(errs))
		for _, e := range errs {
			parts = append(parts, e.Field+": "+e.Message)
		}
		info.Message = strings.Join(parts, "; ")
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

type ErrorPageParams struct {
	StatusCode int
	Message    string
	RequestID  string
}

type ErrorToastParams struct {
	Message   string
	RequestID string
}

type ErrorHandlerConfig struct {
	ErrorPage   func(ErrorPageParams) Component
	ErrorToast  func(ErrorToastParams) Component
	ToastTarget string
}

// NewErrorHandler logs the error and renders an error page, or a toast
// prepended to ToastTarget for datastar requests.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toasts"
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		rid := requestid.FromContext(r.Context())
		info := Classify(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request failed",
			logger.Error(err),
			slog.Int("status", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if IsDataStar(r) && cfg.ErrorToast != nil {
			resp := Templ(cfg.ErrorToast(ErrorToastParams{Message: info.Message, RequestID: rid}),
				WithTarget(cfg.ToastTarget), WithPatchMode(PatchPrepend))
			if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
				log.ErrorContext(r.Context(), "failed to render error toast", logger.Error(rerr))
			}
			return
		}

		if cfg.ErrorPage == nil {
			http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
			return
		}
		page := cfg.ErrorPage(ErrorPageParams{StatusCode: info.StatusCode, Message: info.Message, RequestID: rid})
		if rerr := TemplStatus(info.StatusCode, page).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error page", logger.Error(rerr))
		}
	}
}
