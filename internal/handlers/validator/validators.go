package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator checks request forms against the registered rules and reports
// failed fields as messages fit for an API response.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Register(rules ...ValidationRule) {
	for _, r := range rules {
		r.Rule(v.validate)
	}
}

// Struct validates s. Field failures are joined into a single error, one
// message per field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "project_name":
		return fmt.Sprintf("%s contains characters that are not allowed", fe.Field())
	case "identifier":
		return fmt.Sprintf("%s %q is not a valid identifier", fe.Field(), fe.Value())
	case "roof_type":
		return fmt.Sprintf("unknown roof type %q", fe.Param())
	case "subsystem_kind":
		return fmt.Sprintf("unknown subsystem %q", fe.Param())
	default:
		return fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag())
	}
}
