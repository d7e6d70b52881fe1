package requestid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/requestid"
)

func serve(t *testing.T, incoming string) (header, inContext string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext = requestid.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(requestid.Header, incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header().Get(requestid.Header), inContext
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()
		header, ctxID := serve(t, "")
		require.NotEmpty(t, header)
		assert.Equal(t, header, ctxID)
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
	})

	t.Run("keeps valid incoming id", func(t *testing.T) {
		t.Parallel()
		header, ctxID := serve(t, "req_123-abc")
		assert.Equal(t, "req_123-abc", header)
		assert.Equal(t, "req_123-abc", ctxID)
	})

	for name, bad := range map[string]string{
		"injection": "abc\r\nSet-Cookie: x=1",
		"spaces":    "a b",
		"too long":  strings.Repeat("a", 129),
	} {
		t.Run("replaces "+name, func(t *testing.T) {
			t.Parallel()
			header, ctxID := serve(t, bad)
			assert.NotEqual(t, bad, header)
			assert.Equal(t, header, ctxID)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()
	assert.Empty(t, requestid.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, requestid.FromContext(nil))
	assert.Equal(t, "x", requestid.FromContext(requestid.WithContext(context.Background(), "x")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "rid-1"), "hello")
	assert.Contains(t, buf.String(), `"request_id":"rid-1"`)

	buf.Reset()
	log.InfoContext(context.Background(), "hello")
	assert.NotContains(t, buf.String(), "request_id")
}
