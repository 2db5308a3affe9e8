package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra en memoria. Replica las FK y UNIQUE del esquema.
type PurchaseOrderRepo struct{ base }

func copyPurchaseOrder(po *entity.PurchaseOrder, withItems bool) *entity.PurchaseOrder {
	cp := *po
	cp.Items = nil
	if withItems {
		cp.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	}
	if po.ClosedAt != nil {
		t := *po.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.with("purchases.create", func(st *state) error {
		var broken []string
		if !hasSupplier(st, po.SupplierID) {
			broken = append(broken, "supplier_id")
		}
		if !hasLocation(st, po.LocationID) {
			broken = append(broken, "location_id")
		}
		seen := make(map[string]bool, len(po.Items))
		for _, it := range po.Items {
			if _, ok := st.products[it.ProductID]; !ok {
				broken = append(broken, "items.product_id")
				break
			}
			if seen[it.ProductID] {
				return domain.Validation("producto repetido en la orden", "items.product_id")
			}
			seen[it.ProductID] = true
		}
		if len(broken) > 0 {
			return domain.InvalidReference(broken...)
		}
		for _, cur := range st.purchases {
			if cur.PONumber == po.PONumber {
				return domain.Duplicate("po_number", po.PONumber)
			}
		}
		st.purchases = append(st.purchases, copyPurchaseOrder(po, true))
		return nil
	})
}

func hasSupplier(st *state, id string) bool {
	for _, s := range st.suppliers {
		if s.ID == id {
			return true
		}
	}
	return false
}

func hasLocation(st *state, id string) bool {
	for _, l := range st.locations {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.with("purchases.get", func(st *state) error {
		for _, po := range st.purchases {
			if po.ID == id {
				out = copyPurchaseOrder(po, true)
			}
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.with("purchases.list", func(st *state) error {
		for _, po := range st.purchases {
			if f.Status != "" && po.Status != f.Status {
				continue
			}
			if f.SupplierID != "" && po.SupplierID != f.SupplierID {
				continue
			}
			out = append(out, copyPurchaseOrder(po, false))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return page(out, f.Limit, f.Offset), err
}

// Transition reemplaza el puntero en vez de mutarlo: el estado publicado lo comparten los clones.
func (r *PurchaseOrderRepo) Transition(_ context.Context, id, from, to string, at time.Time) (bool, error) {
	var ok bool
	err := r.with("purchases.transition", func(st *state) error {
		for i, po := range st.purchases {
			if po.ID != id || po.Status != from {
				continue
			}
			next := copyPurchaseOrder(po, true)
			next.Status = to
			closed := at
			next.ClosedAt = &closed
			st.purchases[i] = next
			ok = true
		}
		return nil
	})
	return ok, err
}

func (r *PurchaseOrderRepo) PendingProductIDs(_ context.Context) (map[string]bool, error) {
	out := make(map[string]bool)
	err := r.with("purchases.pending_products", func(st *state) error {
		for _, po := range st.purchases {
			if !po.IsPending() {
				continue
			}
			for _, it := range po.Items {
				out[it.ProductID] = true
			}
		}
		return nil
	})
	return out, err
}
