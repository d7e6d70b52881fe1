package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/binder"
)

type request struct {
	CategoryID    string   `form:"categoryId" query:"categoryId" json:"categoryId"`
	SubCategoryID *string  `form:"subCategoryId" query:"subCategoryId" json:"subCategoryId"`
	Page          int      `query:"page"`
	Tags          []string `form:"tag" query:"tag"`
	Confirm       bool     `form:"confirm"`
	Ignored       string   `form:"-" query:"-"`
	untagged      string
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()
		body := url.Values{
			"categoryId":    {"cat-tech"},
			"subCategoryId": {"sub-ai"},
			"tag":           {"a", " b "},
			"confirm":       {"on"},
			"Ignored":       {"x"},
		}.Encode()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var got request
		require.NoError(t, binder.Form()(req, &got))
		assert.Equal(t, "cat-tech", got.CategoryID)
		require.NotNil(t, got.SubCategoryID)
		assert.Equal(t, "sub-ai", *got.SubCategoryID)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
		assert.True(t, got.Confirm)
		assert.Empty(t, got.Ignored)
		assert.Empty(t, got.untagged)
	})

	t.Run("multipart", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("categoryId", "cat-home"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		var got request
		require.NoError(t, binder.Form()(req, &got))
		assert.Equal(t, "cat-home", got.CategoryID)
		assert.Nil(t, got.SubCategoryID)
	})

	t.Run("other content types are not applicable", func(t *testing.T) {
		t.Parallel()
		for _, ct := range []string{"", "application/json", "text/plain; charset=utf-8"} {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			var got request
			assert.ErrorIs(t, binder.Form()(req, &got), binder.ErrNotApplicable, ct)
		}
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("confirm=maybe"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var got request
		assert.ErrorIs(t, binder.Form()(req, &got), binder.ErrInvalidForm)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?categoryId=cat-sports&page=3&tag=x&tag=y", nil)
	var got request
	require.NoError(t, binder.Query()(req, &got))
	assert.Equal(t, "cat-sports", got.CategoryID)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, []string{"x", "y"}, got.Tags)

	req = httptest.NewRequest(http.MethodGet, "/?page=two", nil)
	assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrInvalidQuery)
}

func TestInvalidTarget(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/?categoryId=x", nil)

	var s string
	assert.ErrorIs(t, binder.Query()(req, &s), binder.ErrInvalidTarget)
	assert.ErrorIs(t, binder.Query()(req, request{}), binder.ErrInvalidTarget)
	var nilPtr *request
	assert.ErrorIs(t, binder.Query()(req, nilPtr), binder.ErrInvalidTarget)
}

func TestSignals(t *testing.T) {
	t.Parallel()

	t.Run("post body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"categoryId":"cat-fashion","subCategoryId":"sub-men"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(binder.DatastarRequestHeader, "true")

		var got request
		require.NoError(t, binder.Signals()(req, &got))
		assert.Equal(t, "cat-fashion", got.CategoryID)
		require.NotNil(t, got.SubCategoryID)
		assert.Equal(t, "sub-men", *got.SubCategoryID)
	})

	t.Run("get query", func(t *testing.T) {
		t.Parallel()
		q := url.Values{"datastar": {`{"categoryId":"cat-home"}`}}.Encode()
		req := httptest.NewRequest(http.MethodGet, "/?"+q, nil)
		req.Header.Set(binder.DatastarRequestHeader, "true")

		var got request
		require.NoError(t, binder.Signals()(req, &got))
		assert.Equal(t, "cat-home", got.CategoryID)
	})

	t.Run("plain request", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		var got request
		assert.ErrorIs(t, binder.Signals()(req, &got), binder.ErrNotApplicable)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set(binder.DatastarRequestHeader, "true")
		var got request
		assert.ErrorIs(t, binder.Signals()(req, &got), binder.ErrInvalidSignals)
	})
}
