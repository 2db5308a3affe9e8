package pdf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/pdf"
)

func sampleInvoice() (*entity.Invoice, []entity.InvoiceLine) {
	inv := &entity.Invoice{
		ID:            "3f1c2a9e-0000-4000-8000-000000000001",
		SaleID:        "sale-1",
		Subtotal:      decimal.RequireFromString("200.00"),
		TaxableAmount: decimal.RequireFromString("200.00"),
		ExemptAmount:  decimal.Zero,
		TaxAmount:     decimal.RequireFromString("36.00"),
		Discount:      decimal.RequireFromString("10.00"),
		Total:         decimal.RequireFromString("226.00"),
		InvoiceDate:   time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
	}
	lines := []entity.InvoiceLine{{
		ProductID:   "p1",
		ProductName: "Auriculares",
		Barcode:     "4006381333931",
		Category:    "electronics",
		UnitPrice:   decimal.RequireFromString("100.00"),
		Quantity:    2,
		TaxRate:     decimal.RequireFromString("0.18"),
		Subtotal:    decimal.RequireFromString("200.00"),
	}}
	return inv, lines
}

func TestRenderInvoice_EscribeArchivo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")
	r := pdf.NewMarotoInvoiceRenderer(dir, "Retail Inventory S.A.")
	inv, lines := sampleInvoice()

	path, err := r.RenderInvoice(context.Background(), inv, lines)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice_"+inv.ID+".pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 100)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_SinCodigoDeBarras(t *testing.T) {
	r := pdf.NewMarotoInvoiceRenderer(t.TempDir(), "Tienda")
	inv, lines := sampleInvoice()
	lines[0].Barcode = "INT1234567"

	data, err := r.Render(inv, lines)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderInvoice_ContextoCancelado(t *testing.T) {
	r := pdf.NewMarotoInvoiceRenderer(t.TempDir(), "Tienda")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inv, lines := sampleInvoice()

	_, err := r.RenderInvoice(ctx, inv, lines)
	assert.ErrorIs(t, err, context.Canceled)
}
