// Package purchasing gestiona las órdenes de compra a proveedores: emisión manual o desde la
// lista de reposición, recepción (ingresa el stock por el libro) y cancelación.
package purchasing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// Motivos por los que una sugerencia de reposición no genera orden.
const (
	SkipNoSupplier     = "no_supplier"
	SkipPendingOrder   = "pending_order"
	SkipNothingToOrder = "nothing_to_order"
)

// Replenisher fuente de sugerencias; implementado por inventory.ReplenishmentUseCase.
type Replenisher interface {
	GenerateReplenishmentList(ctx context.Context, locationID string) ([]dto.ReplenishmentSuggestionDTO, error)
}

// Deps dependencias del caso de uso. Notifier y Metrics son opcionales.
type Deps struct {
	Tx            repository.TxRunner
	Orders        repository.PurchaseOrderRepository
	Products      repository.ProductRepository
	Suppliers     repository.SupplierRepository
	Locations     repository.LocationRepository
	Ledger        *inventory.StockLedger
	Replenishment Replenisher
	Notifier      ports.Notifier
	Metrics       ports.Metrics
	Log           *logger.Logger
}

// PurchaseOrderUseCase casos de uso de órdenes de compra.
type PurchaseOrderUseCase struct {
	Deps
	now func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(d Deps) *PurchaseOrderUseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	d.Log = d.Log.Component("purchasing")
	return &PurchaseOrderUseCase{Deps: d, now: time.Now}
}

// poNumber PO-AAAAMMDD-XXXXXX; el sufijo sale del UUID de la orden.
func poNumber(id string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))[:6]
	return fmt.Sprintf("PO-%s-%s", at.Format("20060102"), suffix)
}

// Create emite una orden. unit_cost en cero toma el costo actual del producto.
// Las referencias rotas (proveedor, ubicación, productos) se informan todas juntas.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, userID string, req dto.CreatePurchaseOrderRequest) (*entity.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, domain.Validation("la orden debe tener al menos una línea", "items")
	}

	var broken []string
	supplier, err := uc.Suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		return nil, domain.Wrap("get supplier", err)
	}
	if supplier == nil {
		broken = append(broken, "supplier_id")
	}
	ok, err := uc.Locations.Exists(ctx, req.LocationID)
	if err != nil {
		return nil, domain.Wrap("validate location", err)
	}
	if !ok {
		broken = append(broken, "location_id")
	}

	now := uc.now().UTC()
	id := uuid.New().String()
	po := &entity.PurchaseOrder{
		ID:          id,
		PONumber:    poNumber(id, now),
		SupplierID:  req.SupplierID,
		LocationID:  req.LocationID,
		Status:      entity.PurchaseOrderPending,
		TotalAmount: decimal.Zero,
		OrderDate:   now,
		CreatedBy:   userID,
	}
	seen := make(map[string]bool, len(req.Items))
	missingProduct := false
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, domain.Validation("la cantidad de cada línea debe ser positiva", "items.quantity")
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.Validation("unit_cost no puede ser negativo", "items.unit_cost")
		}
		if seen[it.ProductID] {
			return nil, domain.Validation("producto repetido en la orden", "items.product_id")
		}
		seen[it.ProductID] = true

		p, err := uc.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, domain.Wrap("get product", err)
		}
		if p == nil {
			missingProduct = true
			continue
		}
		cost := it.UnitCost
		if cost.IsZero() {
			cost = p.CostPrice
		}
		item := entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: id,
			ProductID:       p.ID,
			Quantity:        it.Quantity,
			UnitCost:        cost,
		}
		po.Items = append(po.Items, item)
		po.TotalAmount = po.TotalAmount.Add(item.Subtotal())
	}
	if missingProduct {
		broken = append(broken, "items.product_id")
	}
	if len(broken) > 0 {
		return nil, domain.InvalidReference(broken...)
	}
	po.TotalAmount = po.TotalAmount.Round(2)

	if err := uc.Tx.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Purchases.Create(ctx, po)
	}); err != nil {
		return nil, domain.Wrap("create purchase order", err)
	}

	uc.Metrics.PurchaseOrder("created")
	uc.Log.Info().
		Str("po_id", po.ID).
		Str("po_number", po.PONumber).
		Str("supplier_id", po.SupplierID).
		Int("items", len(po.Items)).
		Str("total", po.TotalAmount.StringFixed(2)).
		Msg("orden de compra emitida")
	uc.notifySupplier(ctx, supplier, po)
	return po, nil
}

// notifySupplier envía la orden al proveedor. Best-effort: la orden ya está confirmada.
func (uc *PurchaseOrderUseCase) notifySupplier(ctx context.Context, s *entity.Supplier, po *entity.PurchaseOrder) {
	if uc.Notifier == nil || s == nil || s.Email == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Orden de compra %s\n\n", po.PONumber)
	for _, it := range po.Items {
		fmt.Fprintf(&b, "- producto %s: %d u. x %s\n", it.ProductID, it.Quantity, it.UnitCost.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", po.TotalAmount.StringFixed(2))

	if err := uc.Notifier.Send(ctx, s.Email, "Orden de compra "+po.PONumber, b.String()); err != nil {
		uc.Metrics.NotificationFailed()
		uc.Log.Warn().Err(err).Str("po_number", po.PONumber).Str("to", s.Email).Msg("no se pudo notificar al proveedor")
	}
}

// GenerateFromReplenishment emite una orden por proveedor con las sugerencias de reposición
// de la ubicación. Se omiten productos sin proveedor, con orden pendiente o sin cantidad sugerida.
func (uc *PurchaseOrderUseCase) GenerateFromReplenishment(ctx context.Context, userID, locationID string) (*dto.GeneratePurchaseOrdersResponse, error) {
	if uc.Replenishment == nil {
		return nil, domain.Validation("reposición no configurada")
	}
	suggestions, err := uc.Replenishment.GenerateReplenishmentList(ctx, locationID)
	if err != nil {
		return nil, domain.Wrap("replenishment list", err)
	}
	pending, err := uc.Orders.PendingProductIDs(ctx)
	if err != nil {
		return nil, domain.Wrap("pending purchase products", err)
	}

	type group struct{ supplier, location string }
	groups := make(map[group][]dto.PurchaseOrderItemRequest)
	out := &dto.GeneratePurchaseOrdersResponse{
		Created: []dto.PurchaseOrderResponse{},
		Skipped: []dto.SkippedSuggestionDTO{},
	}
	for _, s := range suggestions {
		reason := ""
		switch {
		case s.SupplierID == nil || *s.SupplierID == "":
			reason = SkipNoSupplier
		case pending[s.ProductID]:
			reason = SkipPendingOrder
		case s.SuggestedOrderQty <= 0:
			reason = SkipNothingToOrder
		}
		if reason != "" {
			out.Skipped = append(out.Skipped, dto.SkippedSuggestionDTO{ProductID: s.ProductID, Reason: reason})
			continue
		}
		g := group{supplier: *s.SupplierID, location: s.LocationID}
		groups[g] = append(groups[g], dto.PurchaseOrderItemRequest{
			ProductID: s.ProductID,
			Quantity:  s.SuggestedOrderQty,
			UnitCost:  s.UnitCost,
		})
	}

	keys := make([]group, 0, len(groups))
	for g := range groups {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].supplier != keys[j].supplier {
			return keys[i].supplier < keys[j].supplier
		}
		return keys[i].location < keys[j].location
	})
	for _, g := range keys {
		po, err := uc.Create(ctx, userID, dto.CreatePurchaseOrderRequest{
			SupplierID: g.supplier,
			LocationID: g.location,
			Items:      groups[g],
		})
		if err != nil {
			return nil, err
		}
		out.Created = append(out.Created, ToResponse(po))
	}
	return out, nil
}

// Get orden con sus líneas.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("orden de compra", id)
	}
	return po, nil
}

// List cabeceras, más recientes primero.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, req dto.ListPurchaseOrdersRequest) (*dto.PurchaseOrderListResponse, error) {
	req.DefaultPage()
	list, err := uc.Orders.List(ctx, repository.PurchaseOrderFilter{
		Status:     req.Status,
		SupplierID: req.SupplierID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, ToResponse(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}, nil
}

// Receive marca la orden como recibida e ingresa cada línea al stock con su costo, en una
// sola transacción. La transición es condicional: una segunda recepción falla con Conflict.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, userID, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !po.IsPending() {
		return nil, domain.Conflict(fmt.Sprintf("la orden %s está %s", po.PONumber, po.Status))
	}

	at := uc.now().UTC()
	var restocked []*entity.Product
	err = uc.Tx.Run(ctx, func(repos repository.TxRepos) error {
		ok, err := repos.Purchases.Transition(ctx, po.ID, entity.PurchaseOrderPending, entity.PurchaseOrderReceived, at)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Conflict(fmt.Sprintf("la orden %s ya no está pendiente", po.PONumber))
		}
		for _, it := range po.Items {
			cost := it.UnitCost
			p, _, err := uc.Ledger.ApplyInTx(ctx, repos, inventory.Mutation{
				ProductID:   it.ProductID,
				Delta:       it.Quantity,
				Type:        entity.TransactionRestock,
				UserID:      userID,
				Reason:      "recepción " + po.PONumber,
				ReferenceID: po.ID,
				UnitCost:    &cost,
			})
			if err != nil {
				return err
			}
			restocked = append(restocked, p)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Wrap("receive purchase order", err)
	}

	for i, p := range restocked {
		uc.Ledger.AfterCommit(ctx, p, po.Items[i].Quantity)
	}
	uc.Metrics.PurchaseOrder("received")
	uc.Log.Info().Str("po_id", po.ID).Str("po_number", po.PONumber).Int("items", len(po.Items)).Msg("orden de compra recibida")

	po.Status = entity.PurchaseOrderReceived
	po.ClosedAt = &at
	return po, nil
}

// Cancel cancela una orden pendiente. No toca el stock.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	at := uc.now().UTC()
	ok, err := uc.Orders.Transition(ctx, po.ID, entity.PurchaseOrderPending, entity.PurchaseOrderCancelled, at)
	if err != nil {
		return nil, domain.Wrap("cancel purchase order", err)
	}
	if !ok {
		return nil, domain.Conflict(fmt.Sprintf("la orden %s está %s", po.PONumber, po.Status))
	}
	uc.Metrics.PurchaseOrder("cancelled")
	uc.Log.Info().Str("po_id", po.ID).Str("po_number", po.PONumber).Msg("orden de compra cancelada")

	po.Status = entity.PurchaseOrderCancelled
	po.ClosedAt = &at
	return po, nil
}

// ToResponse mapea la orden al DTO. Las líneas se incluyen si vienen cargadas.
func ToResponse(po *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	out := dto.PurchaseOrderResponse{
		ID:          po.ID,
		PONumber:    po.PONumber,
		SupplierID:  po.SupplierID,
		LocationID:  po.LocationID,
		Status:      po.Status,
		TotalAmount: po.TotalAmount,
		OrderDate:   po.OrderDate,
		ClosedAt:    po.ClosedAt,
		CreatedBy:   po.CreatedBy,
	}
	for _, it := range po.Items {
		out.Items = append(out.Items, dto.PurchaseOrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}
