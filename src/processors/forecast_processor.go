package processors

import (
	"math"
	"time"

	"github.com/username/tokoledger/backend/src/models"
)

// ForecastProcessor fits an ordinary-least-squares line to daily sale totals
// and projects it forward.
type ForecastProcessor struct{}

func NewForecastProcessor() *ForecastProcessor { return &ForecastProcessor{} }

const dayLayout = "2006-01-02"

// Forecast projects daysToPredict days past the last observed sale day.
// Only days with at least one sale count as data points; gap days are not
// zero-filled. Fewer than two distinct days yields ErrInsufficientData.
func (p *ForecastProcessor) Forecast(daily []models.DailyPoint, daysToPredict int) (*models.ForecastResult, error) {
	if len(daily) < 2 {
		return nil, models.ErrInsufficientData
	}

	// x = 0,1,2,... over the ascending distinct sale days.
	n := float64(len(daily))
	var sumX, sumY, sumXY, sumXX float64
	for i, pt := range daily {
		x := float64(i)
		y := float64(pt.Total)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, models.ErrInsufficientData
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	trend := "Downward"
	if slope > 0 {
		trend = "Upward"
	}

	growth := 0.0
	if mean := sumY / n; mean != 0 {
		growth = slope / mean * 100
	}

	lastDay, err := time.Parse(dayLayout, daily[len(daily)-1].Date)
	if err != nil {
		// Fall back to indices counted from today when the day key is malformed.
		lastDay = time.Now().UTC().Truncate(24 * time.Hour)
	}

	result := &models.ForecastResult{
		Trend:           trend,
		Slope:           slope,
		Intercept:       intercept,
		DailyGrowthRate: growth,
	}
	lastX := float64(len(daily) - 1)
	for d := 1; d <= daysToPredict; d++ {
		projected := slope*(lastX+float64(d)) + intercept
		if projected < 0 {
			projected = 0 // revenue never projects negative
		}
		result.Series = append(result.Series, models.ForecastPoint{
			Date:      lastDay.AddDate(0, 0, d).Format(dayLayout),
			Projected: int64(math.Round(projected)),
		})
	}
	return result, nil
}
