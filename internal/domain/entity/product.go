package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock en una ubicación.
// Quantity solo se modifica a través del libro de stock (nunca por Update).
type Product struct {
	ID            string
	Name          string
	Barcode       string // único; se autogenera EAN13 si no se envía
	Price         decimal.Decimal
	CostPrice     decimal.Decimal // costo promedio ponderado
	Quantity      int             // siempre >= 0
	MinStockLevel int             // umbral de reorden
	Category      string
	LocationID    string
	SupplierID    *string
	LastAlertAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}
