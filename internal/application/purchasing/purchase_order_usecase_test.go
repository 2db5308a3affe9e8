package purchasing_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/application/purchasing"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type sentMail struct{ to, subject, body string }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type eventMetrics struct {
	ports.NopMetrics
	mu     sync.Mutex
	events map[string]int
	failed int
}

func (m *eventMetrics) PurchaseOrder(event string) { m.mu.Lock(); m.events[event]++; m.mu.Unlock() }
func (m *eventMetrics) NotificationFailed()        { m.mu.Lock(); m.failed++; m.mu.Unlock() }

type fixture struct {
	store    *memory.Store
	uc       *purchasing.PurchaseOrderUseCase
	notifier *recordingNotifier
	metrics  *eventMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore(), notifier: &recordingNotifier{}, metrics: &eventMetrics{events: map[string]int{}}}
	require.NoError(t, f.store.Locations().Create(ctx, &entity.Location{ID: "loc-1", Name: "Centro"}))
	require.NoError(t, f.store.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Acme", Email: "ventas@acme.example"}))
	require.NoError(t, f.store.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-2", Name: "Globex"}))

	ledger := inventory.NewStockLedger(f.store, nil, f.metrics, nil)
	f.uc = purchasing.NewPurchaseOrderUseCase(purchasing.Deps{
		Tx:            f.store,
		Orders:        f.store.Purchases(),
		Products:      f.store.Products(),
		Suppliers:     f.store.Suppliers(),
		Locations:     f.store.Locations(),
		Ledger:        ledger,
		Replenishment: inventory.NewReplenishmentUseCase(f.store.Products(), f.store.Reports()),
		Notifier:      f.notifier,
		Metrics:       f.metrics,
	})
	return f
}

func (f *fixture) seed(t *testing.T, id string, qty, min int, cost string, supplier string) {
	t.Helper()
	p := &entity.Product{
		ID:       id, Name: "Producto " + id, Barcode: "bc-" + id, Price: dec("100"), CostPrice: dec(cost),
		Quantity: qty, MinStockLevel: min, LocationID: "loc-1",
	}
	if supplier != "" {
		p.SupplierID = &supplier
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestCreate_CalculaTotalYNotificaAlProveedor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 2, 5, "10", "sup-1")
	f.seed(t, "p2", 0, 5, "4.50", "sup-1")

	po, err := f.uc.Create(context.Background(), "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		LocationID: "loc-1",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "p1", Quantity: 3, UnitCost: dec("12")},
			{ProductID: "p2", Quantity: 4}, // sin costo: usa el del producto
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderPending, po.Status)
	assert.True(t, strings.HasPrefix(po.PONumber, "PO-"), po.PONumber)
	assert.Len(t, po.PONumber, len("PO-20260101-ABCDEF"))
	// 3*12 + 4*4.50
	assert.True(t, dec("54").Equal(po.TotalAmount), "total: %s", po.TotalAmount)
	assert.Equal(t, "u-1", po.CreatedBy)

	stored, err := f.uc.Get(context.Background(), po.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ventas@acme.example", f.notifier.sent[0].to)
	assert.Contains(t, f.notifier.sent[0].subject, po.PONumber)
	assert.Contains(t, f.notifier.sent[0].body, "54.00")
	assert.Equal(t, 1, f.metrics.events["created"])

	// crear la orden no toca el stock
	assert.Equal(t, 2, f.product(t, "p1").Quantity)
}

func TestCreate_ReferenciasInvalidasSeInformanJuntas(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "no-existe",
		LocationID: "tampoco",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "fantasma", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.ElementsMatch(t, []string{"supplier_id", "location_id", "items.product_id"}, domain.DetailsOf(err))

	list, err := f.store.Purchases().List(context.Background(), repository.PurchaseOrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.notifier.sent)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 2, 5, "10", "sup-1")

	cases := map[string][]dto.PurchaseOrderItemRequest{
		"sin líneas":        nil,
		"cantidad cero":     {{ProductID: "p1", Quantity: 0}},
		"costo negativo":    {{ProductID: "p1", Quantity: 1, UnitCost: dec("-1")}},
		"producto repetido": {{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), "u-1", dto.CreatePurchaseOrderRequest{
				SupplierID: "sup-1", LocationID: "loc-1", Items: items,
			})
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreate_FalloDeNotificacionConservaLaOrden(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 2, 5, "10", "sup-1")
	f.notifier.err = errors.New("smtp caído")

	po, err := f.uc.Create(context.Background(), "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.failed)

	_, err = f.uc.Get(context.Background(), po.ID)
	assert.NoError(t, err)
}

func TestReceive_IngresaStockConCostoPromedio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", 2, 5, "10", "sup-1")

	po, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 8, UnitCost: dec("20")}},
	})
	require.NoError(t, err)

	got, err := f.uc.Receive(ctx, "u-2", po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, got.Status)
	require.NotNil(t, got.ClosedAt)

	p := f.product(t, "p1")
	assert.Equal(t, 10, p.Quantity)
	// (2*10 + 8*20) / 10
	assert.True(t, dec("18").Equal(p.CostPrice), "costo: %s", p.CostPrice)

	history, err := f.store.Transactions().ListByProduct(ctx, "p1", 10)
	require.NoError(t, err)
	var restock *entity.InventoryTransaction
	for _, tx := range history {
		if tx.Type == entity.TransactionRestock {
			restock = tx
		}
	}
	require.NotNil(t, restock)
	assert.Equal(t, 8, restock.QuantityChange)
	assert.Equal(t, po.ID, restock.ReferenceID)
	assert.Equal(t, "u-2", restock.UserID)

	// segunda recepción: conflicto y el stock no se duplica
	_, err = f.uc.Receive(ctx, "u-2", po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 10, f.product(t, "p1").Quantity)
	assert.Equal(t, 1, f.metrics.events["received"])
}

func TestReceive_ConcurrenteIngresaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", 0, 5, "10", "sup-1")

	po, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 6}},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, conflicts := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Receive(ctx, "u-1", po.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, conflicts)
	assert.Equal(t, 6, f.product(t, "p1").Quantity)
}

func TestReceive_ProductoBorradoRevierteLaTransicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", 0, 5, "10", "sup-1")

	po, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 6}},
	})
	require.NoError(t, err)

	f.store.FailNext("products.adjust", errors.New("conexión perdida"))
	_, err = f.uc.Receive(ctx, "u-1", po.ID)
	require.Error(t, err)

	stored, err := f.uc.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, stored.Status)
	assert.Nil(t, stored.ClosedAt)
	assert.Equal(t, 0, f.product(t, "p1").Quantity)
}

func TestCancel_NoTocaStockYBloqueaRecepcion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", 1, 5, "10", "sup-1")

	po, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 4}},
	})
	require.NoError(t, err)

	got, err := f.uc.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCancelled, got.Status)

	_, err = f.uc.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Receive(ctx, "u-1", po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, f.product(t, "p1").Quantity)

	_, err = f.uc.Cancel(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateFromReplenishment_AgrupaPorProveedorYOmite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "a", 1, 10, "5", "sup-1")  // ideal 15 -> pide 14
	f.seed(t, "b", 0, 4, "2", "sup-1")   // ideal 6 -> pide 6
	f.seed(t, "c", 2, 4, "3", "sup-2")   // ideal 6 -> pide 4
	f.seed(t, "d", 0, 4, "3", "")        // sin proveedor
	f.seed(t, "e", 0, 0, "3", "sup-2")   // ideal 0: nada que pedir
	f.seed(t, "f", 1, 4, "3", "sup-2")   // ya tiene orden pendiente
	f.seed(t, "g", 50, 4, "3", "sup-1")  // stock sano, no aparece

	_, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-2", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "f", Quantity: 5}},
	})
	require.NoError(t, err)

	res, err := f.uc.GenerateFromReplenishment(ctx, "u-1", "loc-1")
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Equal(t, "sup-1", res.Created[0].SupplierID)
	assert.Len(t, res.Created[0].Items, 2)
	// 14*5 + 6*2
	assert.True(t, dec("82").Equal(res.Created[0].TotalAmount), "total: %s", res.Created[0].TotalAmount)
	assert.Equal(t, "sup-2", res.Created[1].SupplierID)
	require.Len(t, res.Created[1].Items, 1)
	assert.Equal(t, 4, res.Created[1].Items[0].Quantity)

	skipped := map[string]string{}
	for _, s := range res.Skipped {
		skipped[s.ProductID] = s.Reason
	}
	assert.Equal(t, map[string]string{
		"d": purchasing.SkipNoSupplier,
		"e": purchasing.SkipNothingToOrder,
		"f": purchasing.SkipPendingOrder,
	}, skipped)

	// una segunda corrida no duplica pedidos pendientes
	again, err := f.uc.GenerateFromReplenishment(ctx, "u-1", "loc-1")
	require.NoError(t, err)
	assert.Empty(t, again.Created)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "p1", 1, 5, "10", "sup-1")
	f.seed(t, "p2", 1, 5, "10", "sup-1")

	first, err := f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "u-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", LocationID: "loc-1",
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.uc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	res, err := f.uc.List(ctx, dto.ListPurchaseOrdersRequest{Status: entity.PurchaseOrderPending})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Items[0].Items)
	assert.Equal(t, 20, res.Page.Limit)

	all, err := f.uc.List(ctx, dto.ListPurchaseOrdersRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestGet_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
