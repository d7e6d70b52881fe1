package i18n

import "context"

type langKey struct{}

// WithLang returns a copy of ctx carrying lang.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Lang reports the language negotiated for ctx, falling back to
// DefaultLanguage.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}
