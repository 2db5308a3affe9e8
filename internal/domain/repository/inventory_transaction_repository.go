package repository

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// StockTotals sumas del log de auditoría de un producto.
// Added incluye stock inicial, reposiciones y ajustes (con signo); Sold es positivo.
type StockTotals struct {
	Added int
	Sold  int
}

// InventoryTransactionRepository log de auditoría de mutaciones de stock.
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.InventoryTransaction, error)
	Totals(ctx context.Context, productID string) (StockTotals, error)
}
