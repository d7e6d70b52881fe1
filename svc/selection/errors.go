package selection

import "errors"

var (
	ErrUnknownCommand = errors.New("selection: unknown command")
	ErrFetchFailed    = errors.New("selection: fetch failed")
)

// Submission validation messages and their translation keys.
const (
	MsgCategoryRequired    = "select a category"
	MsgSubCategoryRequired = "select a subcategory"
	MsgSubCategoryMismatch = "subcategory does not belong to category"

	KeyCategoryRequired    = "selection.category_required"
	KeySubCategoryRequired = "selection.subcategory_required"
	KeySubCategoryMismatch = "selection.subcategory_mismatch"
)

// Form field names used in validation errors.
const (
	FieldCategoryID    = "categoryId"
	FieldSubCategoryID = "subCategoryId"
)
