package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

var selectProduct = "SELECT " + cols(productColumns) + " FROM " + TableProducts

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Barcode, &p.Price, &p.CostPrice, &p.Quantity, &p.MinStockLevel,
		&p.Category, &p.LocationID, &p.SupplierID, &p.LastAlertAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// fkField traduce el constraint de FK violado al campo del producto.
func fkField(err error) string {
	name := constraintName(err)
	switch {
	case strings.Contains(name, "supplier"):
		return "supplier_id"
	default:
		return "location_id"
	}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, barcode, price, cost_price, quantity, min_stock_level, category, location_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Barcode, p.Price, p.CostPrice, p.Quantity, p.MinStockLevel,
		p.Category, p.LocationID, nullable(p.SupplierID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Duplicate("barcode", p.Barcode)
		case isForeignKeyViolation(err):
			return domain.InvalidReference(fkField(err))
		case isCheckViolation(err):
			return domain.Validation("cantidad, umbral o precio negativo")
		}
		return domain.Database("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, selectProduct+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("get product", err)
	}
	return p, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, selectProduct+" WHERE barcode = $1", barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Database("get product by barcode", err)
	}
	return p, nil
}

// List lista productos con filtros opcionales, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}
	query := selectProduct
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Database("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Database("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list products", err)
	}
	return list, nil
}

// Update actualiza datos del catálogo. No toca quantity, cost_price ni last_alert_at.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, price = $4, min_stock_level = $5, category = $6,
			location_id = $7, supplier_id = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Barcode, p.Price, p.MinStockLevel, p.Category,
		p.LocationID, nullable(p.SupplierID), p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Duplicate("barcode", p.Barcode)
		case isForeignKeyViolation(err):
			return domain.InvalidReference(fkField(err))
		case isCheckViolation(err):
			return domain.Validation("umbral o precio negativo")
		}
		return domain.Database("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", p.ID)
	}
	return nil
}

// Delete elimina un producto. Devuelve false si no existía.
// Un producto con ventas, movimientos, alertas u órdenes de compra no se puede borrar (Conflict):
// el historial de auditoría no se elimina nunca.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		if isForeignKeyViolation(err) {
			return false, domain.Conflict("el producto tiene historial de ventas, movimientos, alertas u órdenes de compra")
		}
		return false, domain.Database("delete product", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AdjustQuantity escritura condicional: la verificación y la escritura son una sola sentencia,
// así dos decrementos concurrentes sobre la misma fila nunca dejan la cantidad en negativo.
// Si no se actualiza ninguna fila se consulta la cantidad para distinguir NotFound de InsufficientStock.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error) {
	query := `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + cols(productColumns)
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, delta))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isInvalidText(err) {
			return nil, domain.NotFound("producto", id)
		}
		return nil, domain.Database("adjust product quantity", err)
	}

	var available int
	err = r.q.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, id).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("producto", id)
	}
	if err != nil {
		return nil, domain.Database("read product quantity", err)
	}
	return nil, domain.InsufficientStock(id, available, -delta)
}

// UpdateCost actualiza el costo promedio (entradas con costo).
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET cost_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return domain.Database("update product cost", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", id)
	}
	return nil
}

// ClaimAlert reclama la ventana de alerta con un UPDATE condicional.
func (r *ProductRepo) ClaimAlert(ctx context.Context, id string, now, cutoff time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET last_alert_at = $2
		WHERE id = $1 AND (last_alert_at IS NULL OR last_alert_at < $3)`,
		id, now, cutoff,
	)
	if err != nil {
		return false, domain.Database("claim alert window", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListLowStock productos en o por debajo del umbral.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, selectProduct+" WHERE quantity <= min_stock_level ORDER BY id")
	if err != nil {
		return nil, domain.Database("list low stock", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Database("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list low stock", err)
	}
	return list, nil
}
