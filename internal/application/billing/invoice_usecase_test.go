package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/application/billing"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newInvoiceUseCase(t *testing.T) (*memory.Store, *billing.InvoiceUseCase) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: "p1", Name: "Auriculares", Barcode: "2000000000015", Price: dec("100.00"), Category: "electronics", Quantity: 5, LocationID: "loc-1",
	}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: "p2", Name: "Novela", Barcode: "2000000000022", Price: dec("20.00"), Category: "books", Quantity: 5, LocationID: "loc-1",
	}))
	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", QuantitySold: 2, SaleDate: time.Now()}))
	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ID: "s2", ProductID: "p2", QuantitySold: 3, SaleDate: time.Now()}))
	return s, billing.NewInvoiceUseCase(s.Sales(), s.Products(), s.Invoices(), tax.DefaultTable(), nil, nil)
}

func TestCreateInvoice_CalculaYPersiste(t *testing.T) {
	_, uc := newInvoiceUseCase(t)

	inv, lines, err := uc.CreateInvoice(context.Background(), "s1", dec("10"))
	require.NoError(t, err)

	assert.Equal(t, "s1", inv.SaleID)
	assert.True(t, dec("200.00").Equal(inv.Subtotal))
	assert.True(t, dec("200.00").Equal(inv.TaxableAmount))
	assert.True(t, inv.ExemptAmount.IsZero())
	assert.True(t, dec("36.00").Equal(inv.TaxAmount))
	assert.True(t, dec("226.00").Equal(inv.Total), "total: %s", inv.Total)

	require.Len(t, lines, 1)
	assert.Equal(t, "Auriculares", lines[0].ProductName)
	assert.True(t, dec("0.18").Equal(lines[0].TaxRate))
}

func TestCreateInvoice_CategoriaExenta(t *testing.T) {
	_, uc := newInvoiceUseCase(t)

	inv, _, err := uc.CreateInvoice(context.Background(), "s2", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, dec("60.00").Equal(inv.ExemptAmount))
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, dec("60.00").Equal(inv.Total))
}

func TestCreateInvoice_UnaFacturaPorVenta(t *testing.T) {
	s, uc := newInvoiceUseCase(t)
	ctx := context.Background()

	_, _, err := uc.CreateInvoice(ctx, "s1", decimal.Zero)
	require.NoError(t, err)

	_, _, err = uc.CreateInvoice(ctx, "s1", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := s.Invoices().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateInvoice_Errores(t *testing.T) {
	_, uc := newInvoiceUseCase(t)
	ctx := context.Background()

	_, _, err := uc.CreateInvoice(ctx, "", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = uc.CreateInvoice(ctx, "nope", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.CreateInvoice(ctx, "s1", dec("500"))
	assert.ErrorIs(t, err, domain.ErrValidation, "descuento mayor al subtotal")
}

func TestGetInvoice_LineasUsanElPrecioFacturado(t *testing.T) {
	s, uc := newInvoiceUseCase(t)
	ctx := context.Background()

	inv, _, err := uc.CreateInvoice(ctx, "s1", decimal.Zero)
	require.NoError(t, err)

	// el precio cambia después de facturar
	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Price = dec("150.00")
	require.NoError(t, s.Products().Update(ctx, p))

	got, lines, err := uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	require.Len(t, lines, 1)
	assert.True(t, dec("100.00").Equal(lines[0].UnitPrice))
	assert.True(t, dec("200.00").Equal(lines[0].Subtotal))

	_, _, err = uc.GetInvoice(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetInvoice_LineasConservanLaTarifaFacturada(t *testing.T) {
	s, uc := newInvoiceUseCase(t)
	ctx := context.Background()

	inv, _, err := uc.CreateInvoice(ctx, "s1", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "electronics", inv.Category)
	assert.True(t, dec("0.18").Equal(inv.TaxRate))

	// el producto se recategoriza y renombra después de facturar
	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Category = "books"
	p.Name = "Auriculares v2"
	require.NoError(t, s.Products().Update(ctx, p))

	_, lines, err := uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Auriculares", lines[0].ProductName)
	assert.Equal(t, "electronics", lines[0].Category)
	assert.True(t, dec("0.18").Equal(lines[0].TaxRate))
	assert.True(t, lines[0].Subtotal.Mul(lines[0].TaxRate).Round(2).Equal(inv.TaxAmount))
}

func TestPreviewInvoice_NoPersiste(t *testing.T) {
	s, uc := newInvoiceUseCase(t)

	b, lines, err := uc.PreviewInvoice([]tax.LineItem{
		{UnitPrice: dec("10.00"), Quantity: 3, Category: "groceries"},
		{UnitPrice: dec("5.00"), Quantity: 1, Category: "desconocida"},
	}, decimal.Zero)
	require.NoError(t, err)

	// 30 * 0.05 + 5 * 0.18 = 1.5 + 0.9
	assert.True(t, dec("2.40").Equal(b.TaxAmount))
	assert.True(t, dec("37.40").Equal(b.Total))
	require.Len(t, lines, 2)
	assert.True(t, dec("0.18").Equal(lines[1].TaxRate))

	list, err := s.Invoices().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
