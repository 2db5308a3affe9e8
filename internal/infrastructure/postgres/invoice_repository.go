package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas sobre PostgreSQL. UNIQUE(sale_id) garantiza una factura por venta.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

var selectInvoice = "SELECT " + cols(invoiceColumns) + " FROM " + TableInvoices

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	err := row.Scan(&i.ID, &i.SaleID, &i.Subtotal, &i.TaxableAmount, &i.ExemptAmount,
		&i.TaxAmount, &i.Discount, &i.Total, &i.InvoiceDate,
		&i.ProductName, &i.Barcode, &i.Category, &i.TaxRate)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, sale_id, subtotal, taxable_amount, exempt_amount, tax_amount, discount, total, invoice_date,
			product_name, barcode, category, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.SaleID, inv.Subtotal, inv.TaxableAmount, inv.ExemptAmount,
		inv.TaxAmount, inv.Discount, inv.Total, inv.InvoiceDate,
		inv.ProductName, inv.Barcode, inv.Category, inv.TaxRate,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Duplicate("sale_id", inv.SaleID)
		case isForeignKeyViolation(err):
			return domain.NotFound("venta", inv.SaleID)
		}
		return domain.Database("insert invoice", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, selectInvoice+" WHERE "+where+" = $1", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("get invoice", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "id", id)
}

func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return r.getOne(ctx, "sale_id", saleID)
}

func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, selectInvoice+" ORDER BY invoice_date DESC, id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, domain.Database("list invoices", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.Database("scan invoice", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list invoices", err)
	}
	return list, nil
}
