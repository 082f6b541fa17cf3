package services

import (
	"context"

	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/processors"
	"github.com/username/tokoledger/backend/src/store"
)

type forecastServiceImpl struct {
	store     store.LedgerStore
	processor *processors.ForecastProcessor
}

func NewForecastService(st store.LedgerStore) ForecastService {
	return &forecastServiceImpl{store: st, processor: processors.NewForecastProcessor()}
}

// Forecast fits a linear trend to all daily sale totals and projects
// daysToPredict days past the last observed sale day. Read-only and
// side-effect free, so it is safe to abandon mid-flight.
func (s *forecastServiceImpl) Forecast(ctx context.Context, daysToPredict int) (*models.ForecastResult, error) {
	if daysToPredict <= 0 {
		return nil, models.ErrInvalidAmount
	}
	daily, err := s.store.DailySaleTotals(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return s.processor.Forecast(daily, daysToPredict)
}
