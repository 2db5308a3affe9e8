package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-inventory/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name      string
		qty       int
		cost      string
		inQty     int
		inCost    string
		wantPrice string
	}{
		{"sin stock previo", 0, "0", 10, "12.50", "12.5"},
		{"promedio simple", 10, "10", 10, "20", "15"},
		{"ponderado", 30, "8", 10, "12", "9"},
		{"periódico", 2, "1", 1, "2", "1.3333"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(tc.qty, decimal.RequireFromString(tc.cost), tc.inQty, decimal.RequireFromString(tc.inCost))
			assert.True(t, decimal.RequireFromString(tc.wantPrice).Equal(got), "got %s", got)
		})
	}
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, inventory.StatusLow, inventory.StockStatus(5, 5))
	assert.Equal(t, inventory.StatusLow, inventory.StockStatus(0, 0))
	assert.Equal(t, inventory.StatusMedium, inventory.StockStatus(7, 5))
	assert.Equal(t, inventory.StatusHealthy, inventory.StockStatus(8, 5))
	assert.Equal(t, inventory.StatusHealthy, inventory.StockStatus(1, 0))
}
