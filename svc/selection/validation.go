package selection

import (
	"slices"

	"github.com/dmitrymomot/depselect/pkg/validator"
	"github.com/dmitrymomot/depselect/svc/catalog"
)

// ValidateSubmission checks that both fields are present. It returns
// validator.ValidationErrors with one entry per missing field.
func ValidateSubmission(categoryID, subCategoryID string) error {
	return validator.Apply(
		validator.RequiredString(FieldCategoryID, categoryID).
			WithMessage(MsgCategoryRequired, KeyCategoryRequired),
		validator.RequiredString(FieldSubCategoryID, subCategoryID).
			WithMessage(MsgSubCategoryRequired, KeySubCategoryRequired),
	)
}

func validateMembership(sel Selection, loadedFor catalog.CategoryID, subs []catalog.SubCategory) error {
	return validator.Apply(
		validator.Custom(FieldSubCategoryID, func() bool {
			if loadedFor != sel.CategoryID {
				return false
			}
			return slices.ContainsFunc(subs, func(s catalog.SubCategory) bool {
				return s.ID == sel.SubCategoryID && s.CategoryID == sel.CategoryID
			})
		}, MsgSubCategoryMismatch, KeySubCategoryMismatch),
	)
}
