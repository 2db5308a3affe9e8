package postgres

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo log de auditoría de stock sobre PostgreSQL.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create registra la mutación; debe ejecutarse en la misma tx que el cambio de cantidad.
func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, product_id, quantity_change, transaction_type, user_id, reason, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.QuantityChange, t.Type, nullable(&t.UserID), t.Reason, nullable(&t.ReferenceID), t.CreatedAt,
	)
	if err != nil {
		return domain.Database("insert inventory transaction", err)
	}
	return nil
}

// ListByProduct historial del producto, más reciente primero.
func (r *InventoryTransactionRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx,
		"SELECT "+cols(transactionColumns)+" FROM inventory_transactions WHERE product_id = $1 ORDER BY created_at DESC, id LIMIT $2",
		productID, limit,
	)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("list inventory transactions", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var (
			t           entity.InventoryTransaction
			userID, ref *string
		)
		if err := rows.Scan(&t.ID, &t.ProductID, &t.QuantityChange, &t.Type, &userID, &t.Reason, &ref, &t.CreatedAt); err != nil {
			return nil, domain.Database("scan inventory transaction", err)
		}
		if userID != nil {
			t.UserID = *userID
		}
		if ref != nil {
			t.ReferenceID = *ref
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list inventory transactions", err)
	}
	return list, nil
}

// Totals suma entradas (todo lo que no es venta) y ventas del producto.
func (r *InventoryTransactionRepo) Totals(ctx context.Context, productID string) (repository.StockTotals, error) {
	var tot repository.StockTotals
	err := r.q.QueryRow(ctx, `
		SELECT
		    COALESCE(SUM(quantity_change) FILTER (WHERE transaction_type <> 'sale'), 0),
		    COALESCE(-SUM(quantity_change) FILTER (WHERE transaction_type = 'sale'), 0)
		FROM inventory_transactions
		WHERE product_id = $1`, productID,
	).Scan(&tot.Added, &tot.Sold)
	if err != nil {
		return tot, domain.Database("inventory totals", err)
	}
	return tot, nil
}
