package catalog

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrymomot/depselect/pkg/validator"
)

// MaxIDLength is the longest identifier accepted, in runes.
const MaxIDLength = 50

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// CategoryID is an opaque category token.
type CategoryID string

// SubCategoryID is an opaque subcategory token.
type SubCategoryID string

func (id CategoryID) String() string    { return string(id) }
func (id SubCategoryID) String() string { return string(id) }

// ParseCategoryID validates s as a category identifier.
// It fails with ErrInvalidID for blank, overlong or non [a-zA-Z0-9_-] input.
func ParseCategoryID(s string) (CategoryID, error) {
	if err := validateID("categoryId", s); err != nil {
		return "", err
	}
	return CategoryID(s), nil
}

// ParseSubCategoryID validates s as a subcategory identifier.
func ParseSubCategoryID(s string) (SubCategoryID, error) {
	if err := validateID("subCategoryId", s); err != nil {
		return "", err
	}
	return SubCategoryID(s), nil
}

func validateID(field, s string) error {
	err := validator.Apply(
		validator.RequiredString(field, s),
		validator.MaxLenString(field, s, MaxIDLength),
		validator.MatchesRegex(field, s, idPattern, "identifier").
			When(strings.TrimSpace(s) != ""),
	)
	if err != nil {
		return errors.Join(ErrInvalidID, err)
	}
	return nil
}
