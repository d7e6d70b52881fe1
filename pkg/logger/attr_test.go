package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	require.Len(t, attr.Value.Group(), 2)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.CategoryID("cat-tech"), "category_id", "cat-tech"},
		{logger.SubCategoryID("sub-ai"), "subcategory_id", "sub-ai"},
		{logger.Operation("categories"), "operation", "categories"},
		{logger.Component("selection"), "component", "selection"},
		{logger.Attempt(2), "attempt", int64(2)},
		{logger.Duration(time.Second), "duration", time.Second},
		{logger.Status("loading"), "status", "loading"},
		{logger.Key("cat-home"), "key", "cat-home"},
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.SessionID("s1"), "session_id", "s1"},
		{logger.EventType("category.selected"), "event_type", "category.selected"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
	assert.True(t, logger.RequestID(nil).Equal(slog.Attr{}))
}
