package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/tokoledger/backend/src/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentValueStraightLine(t *testing.T) {
	c := NewDepreciationCalculator()
	asset := models.Asset{
		PurchasePrice:    1200000,
		PurchaseDate:     date(2024, 1, 15),
		UsefulLifeMonths: 12,
	}

	tests := []struct {
		name string
		asOf time.Time
		want int64
	}{
		{"at purchase", date(2024, 1, 15), 1200000},
		{"under one month", date(2024, 2, 14), 1200000},
		{"one month", date(2024, 2, 15), 1100000},
		{"six months", date(2024, 7, 15), 600000},
		{"fully depreciated", date(2025, 1, 15), 0},
		{"past useful life", date(2030, 1, 1), 0},
		{"before purchase", date(2023, 6, 1), 1200000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CurrentValue(asset, tt.asOf))
		})
	}
}

func TestCurrentValueFailsClosed(t *testing.T) {
	c := NewDepreciationCalculator()
	asOf := date(2024, 6, 1)

	noLife := models.Asset{PurchasePrice: 500000, PurchaseDate: date(2024, 1, 1)}
	assert.Zero(t, c.CurrentValue(noLife, asOf))

	noPrice := models.Asset{PurchaseDate: date(2024, 1, 1), UsefulLifeMonths: 24}
	assert.Zero(t, c.CurrentValue(noPrice, asOf))
}

func TestCurrentValueBounds(t *testing.T) {
	c := NewDepreciationCalculator()
	asset := models.Asset{
		PurchasePrice:    999999, // does not divide evenly by the life
		PurchaseDate:     date(2023, 3, 10),
		UsefulLifeMonths: 36,
	}
	for months := 0; months <= 48; months++ {
		v := c.CurrentValue(asset, asset.PurchaseDate.AddDate(0, months, 0))
		assert.GreaterOrEqual(t, v, int64(0))
		assert.LessOrEqual(t, v, asset.PurchasePrice)
	}
}

func TestAggregateValue(t *testing.T) {
	c := NewDepreciationCalculator()
	asOf := date(2024, 7, 15)
	assets := []models.Asset{
		{PurchasePrice: 1200000, PurchaseDate: date(2024, 1, 15), UsefulLifeMonths: 12},
		{PurchasePrice: 600000, PurchaseDate: date(2024, 1, 15), UsefulLifeMonths: 6},
		{PurchasePrice: 100000, PurchaseDate: date(2024, 1, 1)}, // no life, counts as zero
	}
	assert.Equal(t, int64(600000), c.AggregateValue(assets, asOf))
}
