package catalog

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/depselect/pkg/validator"
)

// MaxNameLength is the longest display name accepted, in runes.
const MaxNameLength = 100

// Category is a top-level grouping.
type Category struct {
	ID   CategoryID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID         SubCategoryID `json:"id" yaml:"id"`
	CategoryID CategoryID    `json:"categoryId" yaml:"category_id"`
	Name       string        `json:"name" yaml:"name"`
}

// NewCategory validates id and name.
func NewCategory(id, name string) (Category, error) {
	cid, err := ParseCategoryID(id)
	if err != nil {
		return Category{}, err
	}
	if err := validateName(name); err != nil {
		return Category{}, err
	}
	return Category{ID: cid, Name: name}, nil
}

// NewSubCategory validates all fields.
func NewSubCategory(id, categoryID, name string) (SubCategory, error) {
	sid, err := ParseSubCategoryID(id)
	if err != nil {
		return SubCategory{}, err
	}
	cid, err := ParseCategoryID(categoryID)
	if err != nil {
		return SubCategory{}, fmt.Errorf("subcategory %s: %w", id, err)
	}
	if err := validateName(name); err != nil {
		return SubCategory{}, err
	}
	return SubCategory{ID: sid, CategoryID: cid, Name: name}, nil
}

func validateName(name string) error {
	err := validator.Apply(
		validator.RequiredString("name", name),
		validator.MaxLenString("name", name, MaxNameLength),
	)
	if err != nil {
		return errors.Join(ErrInvalidName, err)
	}
	return nil
}

// SubCategoryIDs returns the identifiers of subs in order.
func SubCategoryIDs(subs []SubCategory) []SubCategoryID {
	ids := make([]SubCategoryID, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids
}
