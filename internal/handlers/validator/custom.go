package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/solarwerk/pv-planner/internal/bom"
)

var (
	projectNameRegex = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ._+&()/-]*$`)
	identifierRegex  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
)

func projectNameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return projectNameRegex.MatchString(val)
}

// identifierValidator accepts material and category ids. They must start and end
// with an alphanumeric character.
func identifierValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return identifierRegex.MatchString(val)
}

func knownSubsystem(kind bom.SubsystemKind) bool {
	for _, k := range bom.SubsystemKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// configurationValidator rejects roof types and subsystem kinds the derivation does
// not know. Empty configurations are valid, they derive an empty BOM.
func configurationValidator(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(bom.Configuration)
	if !ok {
		return
	}
	switch cfg.Roof {
	case "", bom.RoofTile, bom.RoofTrapezoidal, bom.RoofFlat:
	default:
		sl.ReportError(cfg.Roof, "roof", "Roof", "roof_type", string(cfg.Roof))
	}
	for kind := range cfg.Subsystems {
		if !knownSubsystem(kind) {
			sl.ReportError(cfg.Subsystems, "subsystems", "Subsystems", "subsystem_kind", string(kind))
		}
	}
}
