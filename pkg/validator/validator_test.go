package validator_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	var errs validator.ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs,
		validator.ValidationError{Field: "categoryId", Message: "select a category"},
		validator.ValidationError{Field: "subCategoryId", Message: "select a subcategory"},
	)
	assert.Equal(t, "validation failed: categoryId: select a category; subCategoryId: select a subcategory", errs.Error())
}

func TestValidationErrors_Accessors(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "a", Message: "one", TranslationKey: "k1"},
		{Field: "b", Message: "two"},
		{Field: "a", Message: "three"},
	}

	assert.True(t, errs.Has("a"))
	assert.False(t, errs.Has("c"))
	assert.Equal(t, []string{"one", "three"}, errs.Get("a"))
	assert.Nil(t, errs.Get("c"))
	assert.Equal(t, []string{"a", "b"}, errs.Fields())

	first, ok := errs.First("a")
	require.True(t, ok)
	assert.Equal(t, "k1", first.TranslationKey)
	_, ok = errs.First("c")
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	t.Run("nil when all rules pass", func(t *testing.T) {
		err := validator.Apply(
			validator.RequiredString("name", "x"),
			validator.MaxLenString("name", "x", 1),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures in order", func(t *testing.T) {
		err := validator.Apply(
			validator.RequiredString("categoryId", " "),
			validator.RequiredString("subCategoryId", ""),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 2)
		assert.Equal(t, []string{"categoryId", "subCategoryId"}, verrs.Fields())
		assert.Equal(t, "validation.required", verrs[0].TranslationKey)
	})

	t.Run("wrapped errors are extracted", func(t *testing.T) {
		err := fmt.Errorf("submit: %w", validator.Apply(validator.RequiredString("f", "")))
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.Len(t, validator.ExtractValidationErrors(err), 1)
	})

	t.Run("non validation errors", func(t *testing.T) {
		assert.Nil(t, validator.ExtractValidationErrors(errors.New("x")))
		assert.Nil(t, validator.ExtractValidationErrors(nil))
	})
}

func TestRules(t *testing.T) {
	idPattern := regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	tests := []struct {
		name string
		rule validator.Rule
		pass bool
	}{
		{"required ok", validator.RequiredString("f", "v"), true},
		{"required blank", validator.RequiredString("f", "\t "), false},
		{"max len counts runes", validator.MaxLenString("f", "Jardinería", 10), true},
		{"max len exceeded", validator.MaxLenString("f", "abcdef", 5), false},
		{"regex ok", validator.MatchesRegex("id", "cat-tech_1", idPattern, "identifier"), true},
		{"regex bad", validator.MatchesRegex("id", "cat tech", idPattern, "identifier"), false},
		{"regex empty", validator.MatchesRegex("id", "", idPattern, "identifier"), false},
		{"in list ok", validator.InList("sub", "sub-ai", []string{"sub-frontend", "sub-ai"}), true},
		{"in list missing", validator.InList("sub", "sub-gym", []string{"sub-ai"}), false},
		{"custom", validator.Custom("f", func() bool { return false }, "nope", "k"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pass, tt.rule.Check())
		})
	}
}

func TestRule_Modifiers(t *testing.T) {
	r := validator.RequiredString("categoryId", "").WithMessage("select a category", "form.category_required")
	assert.Equal(t, "select a category", r.Error.Message)
	assert.Equal(t, "form.category_required", r.Error.TranslationKey)

	kept := validator.RequiredString("f", "").WithMessage("msg", "")
	assert.Equal(t, "validation.required", kept.Error.TranslationKey)

	skipped := validator.RequiredString("f", "").When(false)
	assert.True(t, skipped.Check())
	assert.Equal(t, "f", skipped.Error.Field)
	assert.False(t, validator.RequiredString("f", "").When(true).Check())
	assert.NoError(t, validator.Apply(validator.MaxLenString("f", "abcdef", 2).When(false)))
}
