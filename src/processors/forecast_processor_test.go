package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tokoledger/backend/src/models"
)

func TestForecastLinearTrend(t *testing.T) {
	p := NewForecastProcessor()
	daily := []models.DailyPoint{
		{Date: "2024-03-01", Total: 100},
		{Date: "2024-03-02", Total: 200},
		{Date: "2024-03-03", Total: 300},
	}

	result, err := p.Forecast(daily, 2)
	require.NoError(t, err)

	assert.InDelta(t, 100, result.Slope, 1e-9)
	assert.InDelta(t, 100, result.Intercept, 1e-9)
	assert.Equal(t, "Upward", result.Trend)

	require.Len(t, result.Series, 2)
	assert.Equal(t, models.ForecastPoint{Date: "2024-03-04", Projected: 400}, result.Series[0])
	assert.Equal(t, models.ForecastPoint{Date: "2024-03-05", Projected: 500}, result.Series[1])
}

func TestForecastInsufficientData(t *testing.T) {
	p := NewForecastProcessor()

	_, err := p.Forecast(nil, 7)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, err = p.Forecast([]models.DailyPoint{{Date: "2024-03-01", Total: 100}}, 7)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestForecastClampsNegativeProjection(t *testing.T) {
	p := NewForecastProcessor()
	daily := []models.DailyPoint{
		{Date: "2024-03-01", Total: 300},
		{Date: "2024-03-02", Total: 100},
	}

	result, err := p.Forecast(daily, 3)
	require.NoError(t, err)
	assert.Equal(t, "Downward", result.Trend)

	// Slope -200, intercept 300: day 3 projects to -100 and must clamp.
	require.Len(t, result.Series, 3)
	assert.Equal(t, int64(0), result.Series[1].Projected)
	assert.Equal(t, int64(0), result.Series[2].Projected)
}

func TestForecastGapDaysAreNotZeroFilled(t *testing.T) {
	p := NewForecastProcessor()
	// A week-long gap between points: indices stay 0,1,2, so the fitted slope
	// treats them as consecutive observations.
	daily := []models.DailyPoint{
		{Date: "2024-03-01", Total: 100},
		{Date: "2024-03-08", Total: 200},
		{Date: "2024-03-09", Total: 300},
	}

	result, err := p.Forecast(daily, 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, result.Slope, 1e-9)
	// Projection dates continue from the last observed day.
	assert.Equal(t, "2024-03-10", result.Series[0].Date)
}
