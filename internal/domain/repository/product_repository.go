package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// ProductFilter filtros opcionales para listar productos.
type ProductFilter struct {
	Category   string
	LocationID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByBarcode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update no modifica Quantity ni CostPrice (se manejan vía libro de stock).
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) (bool, error)

	// AdjustQuantity aplica quantity += delta con una escritura condicional.
	// Falla con domain.ErrNotFound o domain.ErrInsufficientStock sin modificar la fila.
	AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error

	// ClaimAlert marca last_alert_at = now solo si es NULL o anterior a cutoff.
	// Devuelve false si otro llamador ya reclamó la ventana.
	ClaimAlert(ctx context.Context, id string, now, cutoff time.Time) (bool, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
