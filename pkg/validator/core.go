package validator

import (
	"errors"
	"strings"
)

// ErrValidationFailed matches any ValidationErrors under errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError is a single field failure. TranslationKey and
// TranslationValues let the presentation layer localize Message.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors lists field failures in the order rules were applied.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidationFailed.Error())
	for i, e := range ve {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(e.Field + ": " + e.Message)
	}
	return b.String()
}

func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve ValidationErrors) Has(field string) bool {
	_, ok := ve.First(field)
	return ok
}

// First returns the earliest failure recorded for field.
func (ve ValidationErrors) First(field string) (ValidationError, bool) {
	for _, e := range ve {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

// Get returns every message recorded for field, in order.
func (ve ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, e := range ve {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Fields returns each failing field once, in first-seen order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		if !containsString(fields, e.Field) {
			fields = append(fields, e.Field)
		}
	}
	return fields
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Rule is a single check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// WithMessage replaces the message. An empty translationKey keeps the
// rule's default key.
func (r Rule) WithMessage(message, translationKey string) Rule {
	r.Error.Message = message
	if translationKey != "" {
		r.Error.TranslationKey = translationKey
	}
	return r
}

// When keeps r active only if cond holds; otherwise the rule always passes.
func (r Rule) When(cond bool) Rule {
	if cond {
		return r
	}
	r.Check = func() bool { return true }
	return r
}

// Apply evaluates every rule and returns the failures, or nil.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ExtractValidationErrors unwraps the ValidationErrors inside err.
func ExtractValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}
