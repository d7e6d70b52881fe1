package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/i18n"
)

const enYAML = `
en:
  form:
    category: "Category"
    greeting: "Hello, %{name}!"
    only_en: "English only"
`

const esYAML = `
es:
  form:
    category: "Categoría"
    greeting: "¡Hola, %{name}!"
`

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	fsys := fstest.MapFS{
		"en.yaml":   {Data: []byte(enYAML)},
		"es.yml":    {Data: []byte(esYAML)},
		"notes.txt": {Data: []byte("ignored")},
	}
	trees, err := i18n.LoadFS(fsys)
	require.NoError(t, err)

	tr, err := i18n.NewTranslator(trees)
	require.NoError(t, err)
	return tr
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	_, err := i18n.LoadFS(fstest.MapFS{})
	require.ErrorIs(t, err, i18n.ErrNoTranslations)

	_, err = i18n.LoadFS(fstest.MapFS{"bad.yaml": {Data: []byte("en: [unclosed")}})
	require.ErrorIs(t, err, i18n.ErrFailedToParseYAML)

	_, err = i18n.LoadFS(fstest.MapFS{"flat.yaml": {Data: []byte("en: text")}})
	require.ErrorIs(t, err, i18n.ErrFailedToParseYAML)
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	assert.Equal(t, "Category", tr.T("en", "form.category"))
	assert.Equal(t, "Categoría", tr.T("es", "form.category"))
	assert.Equal(t, "¡Hola, Ana!", tr.T("es", "form.greeting", "name", "Ana"))
	assert.Equal(t, "Hello, %{name}!", tr.T("en", "form.greeting"))
	assert.Equal(t, "English only", tr.T("es", "form.only_en"), "falls back to default language")
	assert.Equal(t, "form.missing", tr.T("es", "form.missing"), "falls back to key")
	assert.Equal(t, "form", tr.T("en", "form"), "non-string nodes are not translations")

	assert.True(t, tr.Has("en", "form.category"))
	assert.False(t, tr.Has("es", "form.only_en"))
	assert.Equal(t, []string{"en", "es"}, tr.SupportedLanguages())
}

func TestTranslator_Match(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{"exact", []string{"es"}, "es"},
		{"regional variant", []string{"es-MX,es;q=0.9"}, "es"},
		{"quality order", []string{"fr;q=0.5, es;q=0.8"}, "es"},
		{"first match wins", []string{"", "es", "en"}, "es"},
		{"unsupported falls back", []string{"de-DE"}, "en"},
		{"garbage falls back", []string{";;;"}, "en"},
		{"nothing", nil, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.prefs...))
		})
	}
}

func TestNewTranslator_Errors(t *testing.T) {
	t.Parallel()
	_, err := i18n.NewTranslator(nil)
	require.ErrorIs(t, err, i18n.ErrNoTranslations)

	_, err = i18n.NewTranslator(map[string]map[string]any{"not a tag!": {}})
	require.ErrorIs(t, err, i18n.ErrInvalidLanguage)
}

func TestLocaleContext(t *testing.T) {
	t.Parallel()
	assert.Equal(t, i18n.DefaultLanguage, i18n.Lang(context.Background()))
	assert.Equal(t, "es", i18n.Lang(i18n.WithLang(context.Background(), "es")))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	var got string
	h := i18n.Middleware(tr, "lang")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.Lang(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "es", got)

	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "es")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", got, "query parameter has priority")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "es"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "es", got)
}
