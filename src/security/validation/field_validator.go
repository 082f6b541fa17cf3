package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrValidationFailed wraps every field-level validation failure.
var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxNameLength        = 255
	MaxSKULength         = 64
	MaxCategoryLength    = 100
	MaxDescriptionLength = 1024
	MaxNoteLength        = 512
)

// ValidateStringNotEmpty checks that a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks a string's UTF-8 character count.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidatePositiveAmount checks a minor-unit amount is strictly positive.
func ValidatePositiveAmount(v int64, fieldName string) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be a positive amount", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateNonNegativeAmount checks a minor-unit amount is not negative.
func ValidateNonNegativeAmount(v int64, fieldName string) error {
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidatePositiveQuantity checks a unit count is strictly positive.
func ValidatePositiveQuantity(v int64, fieldName string) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be a positive quantity", ErrValidationFailed, fieldName)
	}
	return nil
}
