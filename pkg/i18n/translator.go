package i18n

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/depselect/pkg/logger"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = "en"

// Translator resolves dot-separated keys against per-language trees and
// negotiates the best supported language for a request.
// It is read-only after construction and safe for concurrent use.
type Translator struct {
	translations map[string]map[string]any
	defaultLang  string
	langs        []string
	matcher      language.Matcher
	log          *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = strings.ToLower(lang)
		}
	}
}

// WithLogger enables debug logging of missing keys.
func WithLogger(log *slog.Logger) Option {
	return func(t *Translator) {
		if log != nil {
			t.log = log
		}
	}
}

// NewTranslator builds a translator from loaded translation trees.
func NewTranslator(translations map[string]map[string]any, opts ...Option) (*Translator, error) {
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}

	t := &Translator{
		translations: translations,
		defaultLang:  DefaultLanguage,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	// Default language first so the matcher falls back to it.
	t.langs = []string{t.defaultLang}
	for lang := range translations {
		if lang != t.defaultLang {
			t.langs = append(t.langs, lang)
		}
	}
	slices.Sort(t.langs[1:])

	tags := make([]language.Tag, 0, len(t.langs))
	for _, lang := range t.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, lang, err)
		}
		tags = append(tags, tag)
	}
	t.matcher = language.NewMatcher(tags)

	return t, nil
}

// SupportedLanguages returns language codes with the default first.
func (t *Translator) SupportedLanguages() []string {
	return slices.Clone(t.langs)
}

func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match negotiates the best supported language for the given preferences,
// each being a language code or an Accept-Language header value.
// Candidates are considered in order; the default language wins when nothing matches.
func (t *Translator) Match(prefs ...string) string {
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := t.matcher.Match(tags...)
		if conf != language.No {
			return t.langs[idx]
		}
	}
	return t.defaultLang
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// T translates key for lang. args are name/value pairs substituted into
// %{name} placeholders. Missing keys fall back to the default language and
// then to the key itself.
func (t *Translator) T(lang, key string, args ...string) string {
	tmpl, ok := t.lookup(strings.ToLower(lang), key)
	if !ok && lang != t.defaultLang {
		tmpl, ok = t.lookup(t.defaultLang, key)
	}
	if !ok {
		t.log.Debug("translation not found", slog.String("lang", lang), slog.String("key", key))
		tmpl = key
	}
	return substitute(tmpl, args)
}

// Has reports whether lang has a string translation for key.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.lookup(strings.ToLower(lang), key)
	return ok
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	current, ok := t.translations[lang]
	if !ok {
		return "", false
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			s, ok := val.(string)
			return s, ok
		}
		next, ok := val.(map[string]any)
		if !ok {
			return "", false
		}
		current = next
	}
	return "", false
}

func substitute(tmpl string, args []string) string {
	if len(args) < 2 {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := params[match[2:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
