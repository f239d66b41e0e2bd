package pipeline

import (
	"signup-gateway/internal/domain"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/utils"
)

const (
	msgPasswordMismatch = "Passwords do not match"
	msgPasswordTooShort = "Password must be at least 6 characters"
	msgRequiredFields   = "Please fill in all required fields"
	msgInvalidEmail     = "Please enter a valid email address"
	msgInvalidPhone     = "Please enter a valid phone number"
)

// validateIdentity runs the format checks for method. The order of checks
// follows the forms: a user fixes the first reported problem first.
func validateIdentity(method domain.AuthMethod, id *domain.Identity) error {
	switch method {
	case domain.AuthMethodManual:
		if !utils.PasswordsMatch(id.Password, id.ConfirmPassword) {
			return fieldError(msgPasswordMismatch, "confirmPassword")
		}
		if !utils.IsValidPassword(id.Password) {
			return fieldError(msgPasswordTooShort, "password")
		}
		if id.FirstName == "" || id.LastName == "" || id.Email == "" {
			return errors.NewValidationError(msgRequiredFields, nil)
		}
		if !utils.IsValidEmail(id.Email) {
			return fieldError(msgInvalidEmail, "email")
		}
		if id.Phone != "" && !utils.IsValidPhone(id.Phone) {
			return fieldError(msgInvalidPhone, "phone")
		}

	case domain.AuthMethodManualSignin:
		if !utils.IsValidEmail(id.Email) {
			return fieldError(msgInvalidEmail, "email")
		}
		if !utils.IsValidPassword(id.Password) {
			return fieldError(msgPasswordTooShort, "password")
		}

	case domain.AuthMethodGoogle, domain.AuthMethodMicrosoft, domain.AuthMethodSSO:
		if id.Email == "" {
			return fieldError("No email address was returned by the provider", "email")
		}
		if !utils.IsValidEmail(id.Email) {
			return fieldError(msgInvalidEmail, "email")
		}

	default:
		return errors.NewValidationError("Unsupported authentication method", map[string]interface{}{
			"authMethod": string(method),
		})
	}

	return nil
}

func fieldError(message, field string) *errors.AppError {
	return errors.NewValidationError(message, map[string]interface{}{"field": field})
}
