package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	addr              string
	readHeaderTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	log               *slog.Logger
	middlewares       []func(http.Handler) http.Handler
	onStart           []func(addr string)
	onStop            []func()
}

// WithAddr panics on an empty address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty addr")
	}
	return func(o *options) { o.addr = addr }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(o *options) { o.readHeaderTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown. Non-positive values are ignored.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMiddleware wraps the handler passed to Run. The first middleware is the outermost.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mw...) }
}

// WithStartHook runs fn with the bound address once the listener is open.
func WithStartHook(fn func(addr string)) Option {
	return func(o *options) {
		if fn != nil {
			o.onStart = append(o.onStart, fn)
		}
	}
}

// WithStopHook runs fn after the server has shut down.
func WithStopHook(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.onStop = append(o.onStop, fn)
		}
	}
}
