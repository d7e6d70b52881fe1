// Package i18n loads YAML translation bundles and negotiates request languages
// with golang.org/x/text/language.
//
//	trees, err := i18n.LoadFS(localesFS)
//	tr, err := i18n.NewTranslator(trees, i18n.WithDefaultLanguage("en"))
//	r.Use(i18n.Middleware(tr, "lang"))
//
//	msg := tr.T(i18n.Lang(ctx), "form.category_label")
//
// Keys are dot-separated paths into the per-language tree. Placeholders use
// the %{name} syntax and are filled from name/value argument pairs.
package i18n
