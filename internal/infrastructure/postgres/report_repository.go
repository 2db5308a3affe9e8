package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de ventas, inventario y finanzas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// filtro común: rango de fechas de factura y ubicación opcional ($3 = '' desactiva).
const invoicedSalesFrom = `
	FROM invoices i
	JOIN sales    s ON s.id = i.sale_id
	JOIN products p ON p.id = s.product_id
	WHERE i.invoice_date BETWEEN $1 AND $2
	  AND ($3::TEXT = '' OR p.location_id::TEXT = $3)`

// bounds reemplaza límites cero por el rango completo.
func bounds(from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = time.Unix(0, 0).UTC()
	}
	if to.IsZero() {
		to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return from, to
}

// SalesSummary totales de ventas facturadas en el rango.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time, locationID string) (repository.SalesSummary, error) {
	from, to = bounds(from, to)
	var s repository.SalesSummary
	err := r.q.QueryRow(ctx, `
	SELECT
	    COUNT(i.id),
	    COALESCE(SUM(s.quantity_sold), 0),
	    COALESCE(SUM(i.subtotal), 0),
	    COALESCE(SUM(i.tax_amount), 0),
	    COALESCE(SUM(i.discount), 0),
	    COALESCE(SUM(i.total), 0)`+invoicedSalesFrom,
		from, to, locationID,
	).Scan(&s.Transactions, &s.UnitsSold, &s.GrossSales, &s.TotalTax, &s.TotalDiscount, &s.NetSales)
	if err != nil {
		return s, domain.Database("reports.SalesSummary", err)
	}
	return s, nil
}

// TopProducts productos con mayor ingreso (subtotal) en el rango.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, locationID string, limit int) ([]repository.ProductSales, error) {
	from, to = bounds(from, to)
	rows, err := r.q.Query(ctx, `
	SELECT p.id, p.name, SUM(s.quantity_sold), SUM(i.subtotal) AS revenue`+invoicedSalesFrom+`
	GROUP BY p.id, p.name
	ORDER BY revenue DESC, p.id
	LIMIT $4`,
		from, to, locationID, limit,
	)
	if err != nil {
		return nil, domain.Database("reports.TopProducts", err)
	}
	defer rows.Close()
	var out []repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.UnitsSold, &ps.Revenue); err != nil {
			return nil, domain.Database("reports.TopProducts scan", err)
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("reports.TopProducts", err)
	}
	return out, nil
}

// DailySales serie diaria (UTC) de facturas en el rango.
func (r *ReportRepo) DailySales(ctx context.Context, from, to time.Time, locationID string) ([]repository.DailySales, error) {
	from, to = bounds(from, to)
	rows, err := r.q.Query(ctx, `
	SELECT date_trunc('day', i.invoice_date AT TIME ZONE 'UTC') AS day,
	       COUNT(i.id), SUM(s.quantity_sold), SUM(i.total)`+invoicedSalesFrom+`
	GROUP BY day
	ORDER BY day`,
		from, to, locationID,
	)
	if err != nil {
		return nil, domain.Database("reports.DailySales", err)
	}
	defer rows.Close()
	var out []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Day, &d.Transactions, &d.UnitsSold, &d.Revenue); err != nil {
			return nil, domain.Database("reports.DailySales scan", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("reports.DailySales", err)
	}
	return out, nil
}

// InventoryValuation valor del inventario por producto (quantity * price).
func (r *ReportRepo) InventoryValuation(ctx context.Context, locationID string) ([]repository.ValuationRow, error) {
	rows, err := r.q.Query(ctx, `
	SELECT id, name, quantity, min_stock_level, price, cost_price, quantity * price AS total_value
	FROM products
	WHERE ($1::TEXT = '' OR location_id::TEXT = $1)
	ORDER BY total_value DESC, id`, locationID)
	if err != nil {
		return nil, domain.Database("reports.InventoryValuation", err)
	}
	defer rows.Close()
	var out []repository.ValuationRow
	for rows.Next() {
		var v repository.ValuationRow
		if err := rows.Scan(&v.ProductID, &v.Name, &v.Quantity, &v.MinStockLevel, &v.Price, &v.CostPrice, &v.TotalValue); err != nil {
			return nil, domain.Database("reports.InventoryValuation scan", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("reports.InventoryValuation", err)
	}
	return out, nil
}

// FinancialSummary totales financieros de todas las ubicaciones.
func (r *ReportRepo) FinancialSummary(ctx context.Context, from, to time.Time) (repository.FinancialSummary, error) {
	from, to = bounds(from, to)
	var f repository.FinancialSummary
	err := r.q.QueryRow(ctx, `
	SELECT
	    COALESCE(SUM(i.total), 0),
	    COALESCE(SUM(i.tax_amount), 0),
	    COALESCE(SUM(i.discount), 0),
	    COUNT(i.id),
	    COALESCE(SUM(s.quantity_sold * p.cost_price), 0)`+invoicedSalesFrom,
		from, to, "",
	).Scan(&f.Revenue, &f.Taxes, &f.Discounts, &f.Transactions, &f.CostOfGoods)
	if err != nil {
		return f, domain.Database("reports.FinancialSummary", err)
	}
	return f, nil
}

// WeeklyRevenue ingreso facturado por semana ISO (lunes, UTC) de todas las ubicaciones.
func (r *ReportRepo) WeeklyRevenue(ctx context.Context, from, to time.Time) ([]repository.WeeklyRevenue, error) {
	from, to = bounds(from, to)
	rows, err := r.q.Query(ctx, `
	SELECT date_trunc('week', i.invoice_date AT TIME ZONE 'UTC') AS week,
	       COUNT(i.id), SUM(i.total)
	FROM invoices i
	WHERE i.invoice_date BETWEEN $1 AND $2
	GROUP BY week
	ORDER BY week`,
		from, to,
	)
	if err != nil {
		return nil, domain.Database("reports.WeeklyRevenue", err)
	}
	defer rows.Close()
	var out []repository.WeeklyRevenue
	for rows.Next() {
		var w repository.WeeklyRevenue
		if err := rows.Scan(&w.WeekStart, &w.Transactions, &w.Revenue); err != nil {
			return nil, domain.Database("reports.WeeklyRevenue scan", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("reports.WeeklyRevenue", err)
	}
	return out, nil
}

// PurchaseExpenses gasto en órdenes recibidas dentro del rango, por proveedor, mayor primero.
func (r *ReportRepo) PurchaseExpenses(ctx context.Context, from, to time.Time) ([]repository.SupplierExpense, error) {
	from, to = bounds(from, to)
	rows, err := r.q.Query(ctx, `
	SELECT o.supplier_id::TEXT, s.name, COUNT(o.id), SUM(o.total_amount) AS amount
	FROM purchase_orders o
	JOIN suppliers s ON s.id = o.supplier_id
	WHERE o.status = 'received'
	  AND o.closed_at BETWEEN $1 AND $2
	GROUP BY o.supplier_id, s.name
	ORDER BY amount DESC, o.supplier_id`,
		from, to,
	)
	if err != nil {
		return nil, domain.Database("reports.PurchaseExpenses", err)
	}
	defer rows.Close()
	var out []repository.SupplierExpense
	for rows.Next() {
		var e repository.SupplierExpense
		if err := rows.Scan(&e.SupplierID, &e.SupplierName, &e.Orders, &e.Amount); err != nil {
			return nil, domain.Database("reports.PurchaseExpenses scan", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("reports.PurchaseExpenses", err)
	}
	return out, nil
}
