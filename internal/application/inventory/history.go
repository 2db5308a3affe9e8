package inventory

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

// ConservationReport resultado de verificar Sold + Current == Added para un producto.
type ConservationReport struct {
	ProductID string
	Added     int
	Sold      int
	Current   int
}

// Balanced indica si la ley de conservación se cumple.
func (r ConservationReport) Balanced() bool {
	return r.Sold+r.Current == r.Added
}

// HistoryUseCase consultas sobre el log de auditoría de stock.
type HistoryUseCase struct {
	products     repository.ProductRepository
	transactions repository.InventoryTransactionRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(products repository.ProductRepository, transactions repository.InventoryTransactionRepository) *HistoryUseCase {
	return &HistoryUseCase{products: products, transactions: transactions}
}

// ProductHistory movimientos del producto, más recientes primero.
func (uc *HistoryUseCase) ProductHistory(ctx context.Context, productID string, limit int) ([]*entity.InventoryTransaction, error) {
	if _, err := uc.mustProduct(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.transactions.ListByProduct(ctx, productID, limit)
}

// Conservation compara el stock actual con las sumas del log de auditoría.
func (uc *HistoryUseCase) Conservation(ctx context.Context, productID string) (ConservationReport, error) {
	p, err := uc.mustProduct(ctx, productID)
	if err != nil {
		return ConservationReport{}, err
	}
	totals, err := uc.transactions.Totals(ctx, productID)
	if err != nil {
		return ConservationReport{}, err
	}
	return ConservationReport{
		ProductID: productID,
		Added:     totals.Added,
		Sold:      totals.Sold,
		Current:   p.Quantity,
	}, nil
}

func (uc *HistoryUseCase) mustProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	return p, nil
}
