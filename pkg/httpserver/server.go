package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/depselect/pkg/logger"
)

// Server is an http.Server with graceful shutdown on context cancellation
// or SIGINT/SIGTERM.
type Server struct {
	opts options

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	stopOnce sync.Once
	stopErr  error
}

func New(opts ...Option) *Server {
	o := options{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Addr returns the bound listener address, or an empty string before Run.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run serves handler until ctx is done, a termination signal arrives or
// Shutdown is called. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	for i := len(s.opts.middlewares) - 1; i >= 0; i-- {
		handler = s.opts.middlewares[i](handler)
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	ln, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.opts.readHeaderTimeout,
		ReadTimeout:       s.opts.readTimeout,
		WriteTimeout:      s.opts.writeTimeout,
		IdleTimeout:       s.opts.idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	srv := s.srv
	s.mu.Unlock()

	addr := ln.Addr().String()
	s.opts.log.Info("http server started", logger.Component("httpserver"), "addr", addr)
	for _, fn := range s.opts.onStart {
		fn(addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err = <-errCh:
	case <-sigCtx.Done():
		_ = s.Shutdown(context.Background())
		err = <-errCh
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	// Waits for a concurrent Shutdown to finish.
	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops a running server within the shutdown timeout.
// Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.stopErr = errors.Join(ErrShutdown, err)
		}
		s.opts.log.Info("http server stopped", logger.Component("httpserver"))
		for _, fn := range s.opts.onStop {
			fn()
		}
	})
	return s.stopErr
}
