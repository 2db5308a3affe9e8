package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var (
	_ repository.ProductRepository              = (*ProductRepo)(nil)
	_ repository.SaleRepository                 = (*SaleRepo)(nil)
	_ repository.InvoiceRepository              = (*InvoiceRepo)(nil)
	_ repository.StockAlertRepository           = (*StockAlertRepo)(nil)
	_ repository.InventoryTransactionRepository = (*TransactionRepo)(nil)
	_ repository.LocationRepository             = (*LocationRepo)(nil)
	_ repository.SupplierRepository             = (*SupplierRepo)(nil)
	_ repository.UserRepository                 = (*UserRepo)(nil)
)

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.with("products.create", func(st *state) error {
		for _, p := range st.products {
			if p.Barcode == product.Barcode {
				return domain.Duplicate("barcode", product.Barcode)
			}
		}
		st.products[product.ID] = copyProduct(product)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with("products.get", func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with("products.get_by_barcode", func(st *state) error {
		for _, p := range st.products {
			if p.Barcode == barcode {
				out = copyProduct(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with("products.list", func(st *state) error {
		for _, p := range st.products {
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			if f.LocationID != "" && p.LocationID != f.LocationID {
				continue
			}
			out = append(out, copyProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.with("products.update", func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.NotFound("producto", product.ID)
		}
		for _, p := range st.products {
			if p.ID != product.ID && p.Barcode == product.Barcode {
				return domain.Duplicate("barcode", product.Barcode)
			}
		}
		next := copyProduct(product)
		next.Quantity = cur.Quantity
		next.CostPrice = cur.CostPrice
		next.LastAlertAt = cur.LastAlertAt
		next.CreatedAt = cur.CreatedAt
		st.products[product.ID] = next
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := r.with("products.delete", func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return nil
		}
		if st.hasHistory(id) {
			return domain.Conflict("el producto tiene historial de ventas, movimientos, alertas u órdenes de compra")
		}
		delete(st.products, id)
		deleted = true
		return nil
	})
	return deleted, err
}

// hasHistory equivale al ON DELETE RESTRICT de las tablas que referencian products.
func (s *state) hasHistory(productID string) bool {
	for _, sale := range s.sales {
		if sale.ProductID == productID {
			return true
		}
	}
	for _, tx := range s.transactions {
		if tx.ProductID == productID {
			return true
		}
	}
	for _, a := range s.alerts {
		if a.ProductID == productID {
			return true
		}
	}
	for _, po := range s.purchases {
		for _, it := range po.Items {
			if it.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// AdjustQuantity equivalente en memoria del UPDATE condicional.
func (r *ProductRepo) AdjustQuantity(_ context.Context, id string, delta int) (*entity.Product, error) {
	var out *entity.Product
	err := r.with("products.adjust", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		if p.Quantity+delta < 0 {
			return domain.InsufficientStock(id, p.Quantity, -delta)
		}
		p.Quantity += delta
		p.UpdatedAt = time.Now()
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.with("products.update_cost", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		p.CostPrice = cost
		return nil
	})
}

func (r *ProductRepo) ClaimAlert(_ context.Context, id string, now, cutoff time.Time) (bool, error) {
	var claimed bool
	err := r.with("products.claim_alert", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		if p.LastAlertAt == nil || p.LastAlertAt.Before(cutoff) {
			t := now
			p.LastAlertAt = &t
			claimed = true
		}
		return nil
	})
	return claimed, err
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with("products.list_low_stock", func(st *state) error {
		for _, p := range st.products {
			if p.IsLowStock() {
				out = append(out, copyProduct(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Sales ────────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct{ base }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.with("sales.create", func(st *state) error {
		cp := *sale
		st.sales = append(st.sales, &cp)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.with("sales.get", func(st *state) error {
		for _, s := range st.sales {
			if s.ID == id {
				cp := *s
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.with("sales.list", func(st *state) error {
		for i := len(st.sales) - 1; i >= 0; i-- {
			cp := *st.sales[i]
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, limit, offset), err
}

// ── Invoices ─────────────────────────────────────────────────────────────────

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ base }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.with("invoices.create", func(st *state) error {
		for _, i := range st.invoices {
			if i.SaleID == inv.SaleID {
				return domain.Duplicate("sale_id", inv.SaleID)
			}
		}
		cp := *inv
		st.invoices = append(st.invoices, &cp)
		return nil
	})
}

func (r *InvoiceRepo) find(op string, match func(*entity.Invoice) bool) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.with(op, func(st *state) error {
		for _, i := range st.invoices {
			if match(i) {
				cp := *i
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.find("invoices.get", func(i *entity.Invoice) bool { return i.ID == id })
}

func (r *InvoiceRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Invoice, error) {
	return r.find("invoices.get_by_sale", func(i *entity.Invoice) bool { return i.SaleID == saleID })
}

func (r *InvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.with("invoices.list", func(st *state) error {
		for i := len(st.invoices) - 1; i >= 0; i-- {
			cp := *st.invoices[i]
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, limit, offset), err
}

// ── Stock alerts ─────────────────────────────────────────────────────────────

// StockAlertRepo alertas en memoria.
type StockAlertRepo struct{ base }

func (r *StockAlertRepo) Create(_ context.Context, alert *entity.StockAlert) error {
	return r.with("alerts.create", func(st *state) error {
		cp := *alert
		st.alerts = append(st.alerts, &cp)
		return nil
	})
}

func (r *StockAlertRepo) List(_ context.Context, productID string, limit int) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	err := r.with("alerts.list", func(st *state) error {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			a := st.alerts[i]
			if productID != "" && a.ProductID != productID {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, limit, 0), err
}

// ── Inventory transactions ───────────────────────────────────────────────────

// TransactionRepo log de auditoría en memoria.
type TransactionRepo struct{ base }

func (r *TransactionRepo) Create(_ context.Context, t *entity.InventoryTransaction) error {
	return r.with("transactions.create", func(st *state) error {
		cp := *t
		st.transactions = append(st.transactions, &cp)
		return nil
	})
}

func (r *TransactionRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	err := r.with("transactions.list", func(st *state) error {
		for i := len(st.transactions) - 1; i >= 0; i-- {
			t := st.transactions[i]
			if t.ProductID != productID {
				continue
			}
			cp := *t
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, limit, 0), err
}

func (r *TransactionRepo) Totals(_ context.Context, productID string) (repository.StockTotals, error) {
	var tot repository.StockTotals
	err := r.with("transactions.totals", func(st *state) error {
		for _, t := range st.transactions {
			if t.ProductID != productID {
				continue
			}
			if t.Type == entity.TransactionSale {
				tot.Sold -= t.QuantityChange
			} else {
				tot.Added += t.QuantityChange
			}
		}
		return nil
	})
	return tot, err
}

// ── Locations / Suppliers / Users ────────────────────────────────────────────

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ base }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.with("locations.create", func(st *state) error {
		cp := *l
		st.locations = append(st.locations, &cp)
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.with("locations.get", func(st *state) error {
		for _, l := range st.locations {
			if l.ID == id {
				cp := *l
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Exists(ctx context.Context, id string) (bool, error) {
	l, err := r.GetByID(ctx, id)
	return l != nil, err
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.with("locations.list", func(st *state) error {
		for _, l := range st.locations {
			cp := *l
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ base }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.with("suppliers.create", func(st *state) error {
		cp := *s
		st.suppliers = append(st.suppliers, &cp)
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.with("suppliers.get", func(st *state) error {
		for _, s := range st.suppliers {
			if s.ID == id {
				cp := *s
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Exists(ctx context.Context, id string) (bool, error) {
	s, err := r.GetByID(ctx, id)
	return s != nil, err
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.with("suppliers.list", func(st *state) error {
		for _, s := range st.suppliers {
			cp := *s
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.with("users.create", func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return domain.Duplicate("username", u.Username)
			}
		}
		cp := *u
		st.users = append(st.users, &cp)
		return nil
	})
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.with("users.get", func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				cp := *u
				out = &cp
			}
		}
		return nil
	})
	return out, err
}
