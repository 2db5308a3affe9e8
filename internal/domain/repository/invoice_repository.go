package repository

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para facturas. No hay Update: las facturas son inmutables.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si la venta ya tiene factura.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
}
