// Package validator builds declarative validation rules.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates rules and aggregates failures into
// ValidationErrors, which implements error:
//
//	err := validator.Apply(
//		validator.RequiredString("categoryId", form.CategoryID).
//			WithMessage("select a category", "form.category_required"),
//		validator.MaxLenString("name", name, 100),
//	)
//	if first, ok := validator.ExtractValidationErrors(err).First("categoryId"); ok {
//		log.Println(first.TranslationKey)
//	}
//
// Every error carries a translation key so the HTTP layer can localize messages.
package validator
