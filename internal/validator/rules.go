package validator

import (
	"log"

	"talentflow_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the pipeline's enum validations.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that cannot register is a startup misconfiguration.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-notification-type", validateNotificationType)
	mustRegister("is-proficiency", validateProficiency)
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty is 'required's job
	}

	switch value {
	case "candidate_match", "staff_reminder":
		return true
	default:
		return false
	}
}

func validateProficiency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Proficiency(value).Valid()
}
