// Package validation wraps a shared go-playground validator. Request DTOs
// carry validate tags; failures are reported with the endpoint's own
// client-facing message.
//
//	type commentBody struct {
//	    Rating  int    `validate:"required,min=1,max=5"`
//	    Comment string `validate:"required"`
//	}
//	if err := validation.Check(&body, "Body parameters ... are required."); err != nil {
//	    utils.RespondWithErr(w, err)
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"recreo/errs"
	"recreo/logging"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Check validates s and turns any failure into errs.Validation(msg).
func Check(s any, msg string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	logging.Debug().Str("fields", Describe(err)).Msg("request validation failed")
	return errs.Validation(msg)
}

// Var validates a single value against tag.
func Var(v any, tag string) bool {
	return Validator().Var(v, tag) == nil
}

// Describe renders validator errors as "field: reason" pairs.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+": "+translate(fe))
	}
	return strings.Join(parts, "; ")
}

var templates = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email address",
	"latitude":  "must be a valid latitude",
	"longitude": "must be a valid longitude",
}

var paramTemplates = map[string]string{
	"min":   "must be at least %s",
	"max":   "must be at most %s",
	"gte":   "must be greater than or equal to %s",
	"lte":   "must be less than or equal to %s",
	"oneof": "must be one of: %s",
}

func translate(fe validator.FieldError) string {
	if t, ok := templates[fe.Tag()]; ok {
		return t
	}
	if t, ok := paramTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, fe.Param())
	}
	return "failed " + fe.Tag()
}
