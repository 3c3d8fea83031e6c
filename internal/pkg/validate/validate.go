package validate

import (
	"regexp"

	"pybank/internal/pkg/apperrors"
)

var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	// Local numbering plan: mobile numbers start 010/011/012/015, 11 digits.
	phonePattern = regexp.MustCompile(`^(010|011|012|015)\d{8}$`)
)

func Email(field, email string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError(field, "invalid email format")
	}
	return nil
}

func Phone(field, phone string) error {
	if !phonePattern.MatchString(phone) {
		return apperrors.NewValidationError(field, "invalid phone number format")
	}
	return nil
}
