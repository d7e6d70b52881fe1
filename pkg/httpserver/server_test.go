package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/httpserver"
)

func startServer(t *testing.T, ctx context.Context, srv *httpserver.Server, h http.Handler) (string, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	for range 200 {
		if addr := srv.Addr(); addr != "" {
			return addr, done
		}
		select {
		case err := <-done:
			t.Fatalf("server exited early: %v", err)
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatal("server did not start")
	return "", done
}

func TestServer_RunUntilContextDone(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stopped bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStopHook(func() { stopped = true }),
		httpserver.WithMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Test", "1")
				next.ServeHTTP(w, r)
			})
		}),
	)
	addr, done := startServer(t, ctx, srv, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "1", resp.Header.Get("X-Test"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
	assert.True(t, stopped)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_ManualShutdown(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	_, done := startServer(t, context.Background(), srv, nil)

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestServer_RunTwice(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	startServer(t, ctx, srv, nil)

	err := srv.Run(ctx, nil)
	require.ErrorIs(t, err, httpserver.ErrStart)
	require.ErrorIs(t, err, httpserver.ErrAlreadyRunning)
}

func TestServer_ListenFailure(t *testing.T) {
	t.Parallel()
	err := httpserver.New(httpserver.WithAddr("256.0.0.1:http")).Run(context.Background(), nil)
	require.ErrorIs(t, err, httpserver.ErrStart)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bound := make(chan string, 1)
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		httpserver.WithStartHook(func(addr string) { bound <- addr }))
	addr, _ := startServer(t, ctx, srv, nil)
	assert.Equal(t, addr, <-bound)
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	ok := func(context.Context) error { return nil }
	rec = httptest.NewRecorder()
	httpserver.ReadinessHandler(nil, ok, ok)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	failing := func(context.Context) error { return errors.New("db down") }
	rec = httptest.NewRecorder()
	httpserver.ReadinessHandler(nil, ok, failing)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
}
