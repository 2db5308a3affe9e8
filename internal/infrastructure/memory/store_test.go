package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, s *memory.Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID:       id, Name: id, Barcode: "bc-" + id, Price: decimal.NewFromInt(10),
		Quantity: qty, MinStockLevel: 1, LocationID: "loc-1", CreatedAt: time.Now(),
	}))
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(r repository.TxRepos) error {
		_, err := r.Products.AdjustQuantity(ctx, "p1", -4)
		require.NoError(t, err)
		require.NoError(t, r.Sales.Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", QuantitySold: 4}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity, "la cantidad no debe cambiar tras rollback")
	sale, err := s.Sales().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sale, "no debe existir la venta tras rollback")
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	require.NoError(t, s.Run(ctx, func(r repository.TxRepos) error {
		_, err := r.Products.AdjustQuantity(ctx, "p1", -4)
		return err
	}))
	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 6, p.Quantity)
}

func TestAdjustQuantity_Errores(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 3)

	_, err := s.Products().AdjustQuantity(ctx, "p1", -4)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = s.Products().AdjustQuantity(ctx, "nope", -1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClaimAlert_Ventana(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 3)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	ok, err := s.Products().ClaimAlert(ctx, "p1", now, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	later := now.Add(5 * time.Minute)
	ok, err = s.Products().ClaimAlert(ctx, "p1", later, later.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok, "dentro de la ventana no se puede volver a reclamar")
}

func TestFailNext_InyectaError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("disk full")
	s.FailNext("sales.create", boom)

	err := s.Sales().Create(ctx, &entity.Sale{ID: "s1"})
	require.ErrorIs(t, err, boom)
	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ID: "s1"}), "el error se consume una sola vez")
}

func TestProductCreate_BarcodeDuplicado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 1)
	err := s.Products().Create(ctx, &entity.Product{ID: "p2", Barcode: "bc-p1"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestProductDelete_ConHistorialEsConflict(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		record func(s *memory.Store) error
	}{
		{"venta", func(s *memory.Store) error {
			return s.Sales().Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", QuantitySold: 1})
		}},
		{"movimiento", func(s *memory.Store) error {
			return s.Transactions().Create(ctx, &entity.InventoryTransaction{ID: "t1", ProductID: "p1", QuantityChange: 2, Type: entity.TransactionAdjustment})
		}},
		{"alerta", func(s *memory.Store) error {
			return s.Alerts().Create(ctx, &entity.StockAlert{ID: "a1", ProductID: "p1", AlertType: entity.AlertTypeLowStock})
		}},
		{"orden de compra", func(s *memory.Store) error {
			seedPurchaseRefs(t, s)
			return s.Purchases().Create(ctx, purchaseOrder("po-1", "PO-1", "sup-1", "p1"))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := memory.NewStore()
			seedProduct(t, s, "p1", 2)
			require.NoError(t, tc.record(s))

			deleted, err := s.Products().Delete(ctx, "p1")
			assert.ErrorIs(t, err, domain.ErrConflict)
			assert.False(t, deleted)

			p, err := s.Products().GetByID(ctx, "p1")
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestProductDelete_SinHistorial(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 0)

	deleted, err := s.Products().Delete(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Products().Delete(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func seedPurchaseRefs(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: "loc-1", Name: "Centro"}))
	require.NoError(t, s.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Acme"}))
}

func purchaseOrder(id, number, supplier string, products ...string) *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{
		ID:     id, PONumber: number, SupplierID: supplier, LocationID: "loc-1",
		Status: entity.PurchaseOrderPending, TotalAmount: decimal.NewFromInt(10), OrderDate: time.Now(),
	}
	for i, p := range products {
		po.Items = append(po.Items, entity.PurchaseOrderItem{
			ID: fmt.Sprintf("%s-%d", id, i), PurchaseOrderID: id, ProductID: p, Quantity: 1, UnitCost: decimal.NewFromInt(10),
		})
	}
	return po
}

func TestPurchaseOrders_ReplicaRestriccionesDelEsquema(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 0)
	seedPurchaseRefs(t, s)
	repo := s.Purchases()

	require.NoError(t, repo.Create(ctx, purchaseOrder("po-1", "PO-1", "sup-1", "p1")))
	assert.ErrorIs(t, repo.Create(ctx, purchaseOrder("po-2", "PO-1", "sup-1", "p1")), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, purchaseOrder("po-3", "PO-3", "sup-1", "p1", "p1")), domain.ErrValidation)

	err := repo.Create(ctx, purchaseOrder("po-4", "PO-4", "nadie", "fantasma"))
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.ElementsMatch(t, []string{"supplier_id", "items.product_id"}, domain.DetailsOf(err))

	got, err := repo.GetByID(ctx, "po-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	// la copia devuelta no comparte líneas con el store
	got.Items[0].Quantity = 99
	again, err := repo.GetByID(ctx, "po-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	list, err := repo.List(ctx, repository.PurchaseOrderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Items)

	missing, err := repo.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPurchaseOrders_TransicionCondicional(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 0)
	seedPurchaseRefs(t, s)
	repo := s.Purchases()
	require.NoError(t, repo.Create(ctx, purchaseOrder("po-1", "PO-1", "sup-1", "p1")))

	pending, err := repo.PendingProductIDs(ctx)
	require.NoError(t, err)
	assert.True(t, pending["p1"])

	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	ok, err := repo.Transition(ctx, "po-1", entity.PurchaseOrderPending, entity.PurchaseOrderReceived, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, "po-1", entity.PurchaseOrderPending, entity.PurchaseOrderCancelled, at)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, "po-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, at.Equal(*got.ClosedAt))

	pending, err = repo.PendingProductIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// dentro de una tx abortada la transición no se publica
	boom := errors.New("boom")
	require.NoError(t, repo.Create(ctx, purchaseOrder("po-2", "PO-2", "sup-1", "p1")))
	err = s.Run(ctx, func(r repository.TxRepos) error {
		ok, err := r.Purchases.Transition(ctx, "po-2", entity.PurchaseOrderPending, entity.PurchaseOrderCancelled, at)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)
	still, err := repo.GetByID(ctx, "po-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, still.Status)
}
