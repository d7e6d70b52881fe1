package catalog

import "context"

// Repository is the data source for categories and subcategories.
//
// List methods return results in a stable order and an empty slice, never an
// error, for unknown or empty category ids.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListSubCategories(ctx context.Context, categoryID CategoryID) ([]SubCategory, error)
	FindCategory(ctx context.Context, id CategoryID) (Category, error)
}
