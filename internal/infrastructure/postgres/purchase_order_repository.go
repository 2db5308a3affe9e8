package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (cabecera + líneas).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

var selectPurchaseOrder = "SELECT " + cols(purchaseOrderColumns) + " FROM " + TablePurchaseOrders

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var createdBy *string
	err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &po.LocationID, &po.Status,
		&po.TotalAmount, &po.OrderDate, &po.ClosedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		po.CreatedBy = *createdBy
	}
	return &po, nil
}

// purchaseFKField traduce el constraint de FK violado al campo de la orden.
func purchaseFKField(err error) string {
	name := constraintName(err)
	switch {
	case strings.Contains(name, "supplier"):
		return "supplier_id"
	case strings.Contains(name, "location"):
		return "location_id"
	default:
		return "items.product_id"
	}
}

// Create inserta la cabecera y sus líneas. Debe ejecutarse con una tx como Querier.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, po_number, supplier_id, location_id, status, total_amount, order_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		po.ID, po.PONumber, po.SupplierID, po.LocationID, po.Status, po.TotalAmount, po.OrderDate, nullable(&po.CreatedBy),
	)
	if err != nil {
		return r.mapWriteErr(err, po)
	}

	for _, it := range po.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, po.ID, it.ProductID, it.Quantity, it.UnitCost,
		)
		if err != nil {
			return r.mapWriteErr(err, po)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) mapWriteErr(err error, po *entity.PurchaseOrder) error {
	switch {
	case isForeignKeyViolation(err):
		return domain.InvalidReference(purchaseFKField(err))
	case isUniqueViolation(err):
		if strings.Contains(constraintName(err), "po_number") {
			return domain.Duplicate("po_number", po.PONumber)
		}
		return domain.Validation("producto repetido en la orden", "items.product_id")
	case isCheckViolation(err):
		return domain.Validation("cantidad o costo inválido en la orden", "items")
	}
	return domain.Database("insert purchase order", err)
}

// GetByID cabecera con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, selectPurchaseOrder+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("get purchase order", err)
	}

	rows, err := r.q.Query(ctx,
		"SELECT "+cols(purchaseItemColumns)+" FROM "+TablePurchaseOrderItems+" WHERE purchase_order_id = $1 ORDER BY id",
		id,
	)
	if err != nil {
		return nil, domain.Database("list purchase order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitCost); err != nil {
			return nil, domain.Database("scan purchase order item", err)
		}
		po.Items = append(po.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list purchase order items", err)
	}
	return po, nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, selectPurchaseOrder+`
		WHERE ($1::TEXT = '' OR status = $1)
		  AND ($2::TEXT = '' OR supplier_id::TEXT = $2)
		ORDER BY order_date DESC, id
		LIMIT $3 OFFSET $4`,
		f.Status, f.SupplierID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, domain.Database("list purchase orders", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, domain.Database("scan purchase order", err)
		}
		list = append(list, po)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list purchase orders", err)
	}
	return list, nil
}

// Transition escritura condicional sobre el estado: dos recepciones concurrentes de la
// misma orden no pueden ingresar el stock dos veces.
func (r *PurchaseOrderRepo) Transition(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $3, closed_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, at,
	)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, domain.Database("transition purchase order", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *PurchaseOrderRepo) PendingProductIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT i.product_id
		FROM purchase_order_items i
		JOIN purchase_orders o ON o.id = i.purchase_order_id
		WHERE o.status = 'pending'`)
	if err != nil {
		return nil, domain.Database("pending purchase products", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.Database("scan pending purchase product", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("pending purchase products", err)
	}
	return out, nil
}
