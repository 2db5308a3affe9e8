package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reportes calculados sobre el estado en memoria (facturas + ventas + productos).
type ReportRepo struct{ base }

type invoicedSale struct {
	inv     *entity.Invoice
	sale    *entity.Sale
	product *entity.Product
}

// invoiced une factura, venta y producto; from/to cero = sin límite.
func invoiced(st *state, from, to time.Time, locationID string) []invoicedSale {
	sales := make(map[string]*entity.Sale, len(st.sales))
	for _, s := range st.sales {
		sales[s.ID] = s
	}
	var out []invoicedSale
	for _, inv := range st.invoices {
		if !from.IsZero() && inv.InvoiceDate.Before(from) {
			continue
		}
		if !to.IsZero() && inv.InvoiceDate.After(to) {
			continue
		}
		sale := sales[inv.SaleID]
		if sale == nil {
			continue
		}
		p := st.products[sale.ProductID]
		if locationID != "" && (p == nil || p.LocationID != locationID) {
			continue
		}
		out = append(out, invoicedSale{inv: inv, sale: sale, product: p})
	}
	return out
}

func (r *ReportRepo) SalesSummary(_ context.Context, from, to time.Time, locationID string) (repository.SalesSummary, error) {
	var sum repository.SalesSummary
	err := r.with("reports.sales_summary", func(st *state) error {
		for _, row := range invoiced(st, from, to, locationID) {
			sum.Transactions++
			sum.UnitsSold += row.sale.QuantitySold
			sum.GrossSales = sum.GrossSales.Add(row.inv.Subtotal)
			sum.TotalTax = sum.TotalTax.Add(row.inv.TaxAmount)
			sum.TotalDiscount = sum.TotalDiscount.Add(row.inv.Discount)
			sum.NetSales = sum.NetSales.Add(row.inv.Total)
		}
		return nil
	})
	return sum, err
}

func (r *ReportRepo) TopProducts(_ context.Context, from, to time.Time, locationID string, limit int) ([]repository.ProductSales, error) {
	byProduct := map[string]*repository.ProductSales{}
	err := r.with("reports.top_products", func(st *state) error {
		for _, row := range invoiced(st, from, to, locationID) {
			ps, ok := byProduct[row.sale.ProductID]
			if !ok {
				ps = &repository.ProductSales{ProductID: row.sale.ProductID}
				if row.product != nil {
					ps.ProductName = row.product.Name
				}
				byProduct[row.sale.ProductID] = ps
			}
			ps.UnitsSold += row.sale.QuantitySold
			ps.Revenue = ps.Revenue.Add(row.inv.Subtotal)
		}
		return nil
	})
	out := make([]repository.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return page(out, limit, 0), err
}

func (r *ReportRepo) DailySales(_ context.Context, from, to time.Time, locationID string) ([]repository.DailySales, error) {
	byDay := map[time.Time]*repository.DailySales{}
	err := r.with("reports.daily_sales", func(st *state) error {
		for _, row := range invoiced(st, from, to, locationID) {
			d := row.inv.InvoiceDate.UTC().Truncate(24 * time.Hour)
			ds, ok := byDay[d]
			if !ok {
				ds = &repository.DailySales{Day: d}
				byDay[d] = ds
			}
			ds.Transactions++
			ds.UnitsSold += row.sale.QuantitySold
			ds.Revenue = ds.Revenue.Add(row.inv.Total)
		}
		return nil
	})
	out := make([]repository.DailySales, 0, len(byDay))
	for _, ds := range byDay {
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, err
}

func (r *ReportRepo) InventoryValuation(_ context.Context, locationID string) ([]repository.ValuationRow, error) {
	var out []repository.ValuationRow
	err := r.with("reports.valuation", func(st *state) error {
		for _, p := range st.products {
			if locationID != "" && p.LocationID != locationID {
				continue
			}
			out = append(out, repository.ValuationRow{
				ProductID:     p.ID,
				Name:          p.Name,
				Quantity:      p.Quantity,
				MinStockLevel: p.MinStockLevel,
				Price:         p.Price,
				CostPrice:     p.CostPrice,
				TotalValue:    p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))),
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalValue.Cmp(out[j].TotalValue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, err
}

func (r *ReportRepo) FinancialSummary(_ context.Context, from, to time.Time) (repository.FinancialSummary, error) {
	var fin repository.FinancialSummary
	err := r.with("reports.financial", func(st *state) error {
		for _, row := range invoiced(st, from, to, "") {
			fin.Transactions++
			fin.Revenue = fin.Revenue.Add(row.inv.Total)
			fin.Taxes = fin.Taxes.Add(row.inv.TaxAmount)
			fin.Discounts = fin.Discounts.Add(row.inv.Discount)
			if row.product != nil {
				fin.CostOfGoods = fin.CostOfGoods.Add(row.product.CostPrice.Mul(decimal.NewFromInt(int64(row.sale.QuantitySold))))
			}
		}
		return nil
	})
	return fin, err
}

// weekStart lunes 00:00 UTC de la semana de t, igual que date_trunc('week').
func weekStart(t time.Time) time.Time {
	d := t.UTC().Truncate(24 * time.Hour)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func (r *ReportRepo) WeeklyRevenue(_ context.Context, from, to time.Time) ([]repository.WeeklyRevenue, error) {
	byWeek := map[time.Time]*repository.WeeklyRevenue{}
	err := r.with("reports.weekly_revenue", func(st *state) error {
		for _, row := range invoiced(st, from, to, "") {
			w := weekStart(row.inv.InvoiceDate)
			wr, ok := byWeek[w]
			if !ok {
				wr = &repository.WeeklyRevenue{WeekStart: w}
				byWeek[w] = wr
			}
			wr.Transactions++
			wr.Revenue = wr.Revenue.Add(row.inv.Total)
		}
		return nil
	})
	out := make([]repository.WeeklyRevenue, 0, len(byWeek))
	for _, wr := range byWeek {
		out = append(out, *wr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, err
}

func (r *ReportRepo) PurchaseExpenses(_ context.Context, from, to time.Time) ([]repository.SupplierExpense, error) {
	bySupplier := map[string]*repository.SupplierExpense{}
	err := r.with("reports.purchase_expenses", func(st *state) error {
		names := make(map[string]string, len(st.suppliers))
		for _, s := range st.suppliers {
			names[s.ID] = s.Name
		}
		for _, po := range st.purchases {
			if po.Status != entity.PurchaseOrderReceived || po.ClosedAt == nil {
				continue
			}
			if !from.IsZero() && po.ClosedAt.Before(from) {
				continue
			}
			if !to.IsZero() && po.ClosedAt.After(to) {
				continue
			}
			e, ok := bySupplier[po.SupplierID]
			if !ok {
				e = &repository.SupplierExpense{SupplierID: po.SupplierID, SupplierName: names[po.SupplierID]}
				bySupplier[po.SupplierID] = e
			}
			e.Orders++
			e.Amount = e.Amount.Add(po.TotalAmount)
		}
		return nil
	})
	out := make([]repository.SupplierExpense, 0, len(bySupplier))
	for _, e := range bySupplier {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].SupplierID < out[j].SupplierID
	})
	return out, err
}
