package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "shop rent January", "shop rent January"},
		{"html stripped", "<script>alert(1)</script>rent", "rent"},
		{"tags removed content kept", "<b>weekly delivery</b>", "weekly delivery"},
		{"unprintable removed", "note\x00with\x1fcontrol", "notewithcontrol"},
		{"surrounding space trimmed", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFreeText(tt.input))
		})
	}
}

func TestFieldValidators(t *testing.T) {
	assert.NoError(t, ValidateStringNotEmpty("x", "name"))
	assert.ErrorIs(t, ValidateStringNotEmpty("   ", "name"), ErrValidationFailed)

	assert.NoError(t, ValidateStringMaxLength("short", 10, "name"))
	assert.ErrorIs(t, ValidateStringMaxLength("toolongvalue", 5, "name"), ErrValidationFailed)

	assert.NoError(t, ValidatePositiveAmount(1, "amount"))
	assert.ErrorIs(t, ValidatePositiveAmount(0, "amount"), ErrValidationFailed)

	assert.NoError(t, ValidateNonNegativeAmount(0, "fee"))
	assert.ErrorIs(t, ValidateNonNegativeAmount(-1, "fee"), ErrValidationFailed)

	assert.NoError(t, ValidatePositiveQuantity(2, "quantity"))
	assert.ErrorIs(t, ValidatePositiveQuantity(-2, "quantity"), ErrValidationFailed)
}
