// Package validation checks request payloads and reports every violated constraint at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Error is returned when input violates one or more constraints.
type Error struct {
	Violations []string // Violations holds one human-readable message per broken constraint.
}

func (e *Error) Error() string {
	return "validation error: " + strings.Join(e.Violations, "; ")
}

// Add records another violation.
func (e *Error) Add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// OrNil returns e as an error when it holds violations, and nil otherwise.
func (e *Error) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}

	return e
}

// IsValidationError reports whether err is, or wraps, a *Error.
func IsValidationError(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

// Validator validates structs tagged with `validate` and translates failures to English.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator that names fields after their json tags.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register validation translations: %w", err)
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s. It returns a *Error listing every violation, or nil.
func (v *Validator) Struct(s any) error {
	return v.collect(s, &Error{}).OrNil()
}

// StructInto validates s and appends its violations to vErr, skipping fields listed in skip.
func (v *Validator) StructInto(s any, vErr *Error, skip ...string) {
	v.collect(s, vErr, skip...)
}

func (v *Validator) collect(s any, vErr *Error, skip ...string) *Error {
	err := v.validate.Struct(s)
	if err == nil {
		return vErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.Add("%s", err.Error())
		return vErr
	}

	for _, fieldErr := range fieldErrs {
		if slices.Contains(skip, fieldErr.Field()) {
			continue
		}
		vErr.Violations = append(vErr.Violations, fieldErr.Translate(v.trans))
	}

	return vErr
}
