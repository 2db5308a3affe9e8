package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

// ventana de ventas usada para priorizar la reposición
const replenishmentWindow = 90 * 24 * time.Hour

// ReplenishmentUseCase genera la lista de reposición a partir de los productos en o bajo su umbral.
// Prioriza por volumen de ventas reciente y luego por déficit.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, reports repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, reports: reports, now: time.Now}
}

// GenerateReplenishmentList devuelve sugerencias ordenadas por prioridad (1 = más urgente).
// locationID vacío considera todas las ubicaciones.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, locationID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	low, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	end := uc.now().UTC()
	top, err := uc.reports.TopProducts(ctx, end.Add(-replenishmentWindow), end, locationID, 500)
	if err != nil {
		return nil, err
	}
	soldByID := make(map[string]int, len(top))
	for _, t := range top {
		soldByID[t.ProductID] = t.UnitsSold
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		if locationID != "" && p.LocationID != locationID {
			continue
		}
		ideal := (3*p.MinStockLevel + 1) / 2
		qty := ideal - p.Quantity
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			Barcode:            p.Barcode,
			ProductName:        p.Name,
			LocationID:         p.LocationID,
			SupplierID:         p.SupplierID,
			CurrentStock:       p.Quantity,
			MinStockLevel:      p.MinStockLevel,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2),
			UnitsSoldLast90d:   soldByID[p.ID],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.UnitsSoldLast90d != b.UnitsSoldLast90d {
			return a.UnitsSoldLast90d > b.UnitsSoldLast90d
		}
		da, db := a.MinStockLevel-a.CurrentStock, b.MinStockLevel-b.CurrentStock
		if da != db {
			return da > db
		}
		return a.ProductID < b.ProductID
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
