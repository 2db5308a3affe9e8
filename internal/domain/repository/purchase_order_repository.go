package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// PurchaseOrderFilter filtros del listado. Vacío = sin filtro.
type PurchaseOrderFilter struct {
	Status     string
	SupplierID string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
// GetByID devuelve (nil, nil) si no existe.
type PurchaseOrderRepository interface {
	// Create inserta cabecera y líneas; llamar dentro de una transacción.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// List devuelve cabeceras sin líneas, más recientes primero.
	List(ctx context.Context, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	// Transition cambia el estado solo si la orden está en from. false = no estaba en from (o no existe).
	Transition(ctx context.Context, id, from, to string, at time.Time) (bool, error)
	// PendingProductIDs productos con al menos una línea en una orden pendiente.
	PendingProductIDs(ctx context.Context) (map[string]bool, error)
}
