package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateParam(t *testing.T) {
	got, err := ParseDateParam("2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDateParam("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDateParam("31-01-2024")
	assert.Error(t, err)
}

func TestParseEndDateParamCoversWholeDay(t *testing.T) {
	got, err := ParseEndDateParam("2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), *got)

	// A midday timestamp on the end day sits inside the bound.
	noon := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	assert.False(t, noon.After(*got))

	got, err = ParseEndDateParam("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseEndDateParam("not-a-date")
	assert.Error(t, err)
}

func TestParseIDParam(t *testing.T) {
	id, err := ParseIDParam("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseIDParam("0")
	assert.Error(t, err)
	_, err = ParseIDParam("abc")
	assert.Error(t, err)
}
