package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/solarwerk/pv-planner/internal/bom"
)

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func registerConfiguration() func(v *validator.Validate) {
	return func(v *validator.Validate) {
		v.RegisterStructValidation(configurationValidator, bom.Configuration{})
	}
}

func NewMaterialValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("identifier", identifierValidator),
		},
	}
}

func NewProjectValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("project_name", projectNameValidator),
		},
		{
			Rule: registerFn("identifier", identifierValidator),
		},
		{
			Rule: registerConfiguration(),
		},
	}
}

func NewDerivationValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerConfiguration(),
		},
	}
}
