package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/depselect/svc/catalog"
)

// Command is a write operation accepted by Facade.Dispatch.
type Command interface {
	commandName() string
}

type SelectCategoryCommand struct {
	CategoryID string
}

type UnselectCategoryCommand struct{}

type SelectSubCategoryCommand struct {
	SubCategoryID string
}

func (SelectCategoryCommand) commandName() string    { return "select_category" }
func (UnselectCategoryCommand) commandName() string  { return "unselect_category" }
func (SelectSubCategoryCommand) commandName() string { return "select_subcategory" }

// Facade exposes the coordinator as commands and queries.
type Facade struct {
	c    *Coordinator
	repo catalog.Repository
}

func NewFacade(c *Coordinator, repo catalog.Repository) *Facade {
	return &Facade{c: c, repo: repo}
}

// Dispatch executes cmd. SelectCategoryCommand verifies the category exists
// and fails with catalog.ErrCategoryNotFound otherwise.
func (f *Facade) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case SelectCategoryCommand:
		id, err := catalog.ParseCategoryID(cmd.CategoryID)
		if err != nil {
			return err
		}
		if _, err := f.repo.FindCategory(ctx, id); err != nil {
			return err
		}
		return f.c.SelectCategory(ctx, id.String())
	case UnselectCategoryCommand:
		return f.c.SelectCategory(ctx, "")
	case SelectSubCategoryCommand:
		return f.c.SelectSubCategory(ctx, cmd.SubCategoryID)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

// GetCategories waits for the category list and returns it.
func (f *Facade) GetCategories(ctx context.Context) ([]catalog.Category, error) {
	v, err := f.c.WaitCategories(ctx)
	if err != nil {
		return nil, err
	}
	if v.Error != "" {
		return v.Categories, errors.Join(ErrFetchFailed, errors.New(v.Error))
	}
	return v.Categories, nil
}

// GetSubCategories reads the subcategories of categoryID straight from the
// repository. An empty id yields an empty list.
func (f *Facade) GetSubCategories(ctx context.Context, categoryID string) ([]catalog.SubCategory, error) {
	if categoryID == "" {
		return []catalog.SubCategory{}, nil
	}
	id, err := catalog.ParseCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	return f.repo.ListSubCategories(ctx, id)
}

// GetSelectedCategory returns the selected category if it is among the
// loaded categories.
func (f *Facade) GetSelectedCategory() (catalog.Category, bool) {
	id := f.c.Selection().CategoryID
	if id == "" {
		return catalog.Category{}, false
	}
	for _, cat := range f.c.Categories().Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return catalog.Category{}, false
}
