// Package billing contiene los casos de uso de facturación: cálculo, emisión y PDF.
package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// InvoiceUseCase emite facturas a partir de ventas. Una factura por venta; no hay actualización.
type InvoiceUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	invoices repository.InvoiceRepository
	table    tax.Table
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso con la tabla de tarifas a aplicar.
func NewInvoiceUseCase(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
	table tax.Table,
	metrics ports.Metrics,
	log *logger.Logger,
) *InvoiceUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		sales:    sales,
		products: products,
		invoices: invoices,
		table:    table,
		metrics:  metrics,
		log:      log.Component("billing"),
		now:      time.Now,
	}
}

// CreateInvoice toma una foto de la venta y del producto, calcula impuestos y persiste la factura.
// Un segundo intento sobre la misma venta falla con Duplicate.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, saleID string, discount decimal.Decimal) (*entity.Invoice, []entity.InvoiceLine, error) {
	if saleID == "" {
		return nil, nil, domain.Validation("sale_id es obligatorio", "sale_id")
	}
	existing, err := uc.invoices.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.Duplicate("sale_id", saleID)
	}

	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.NotFound("venta", saleID)
	}
	product, err := uc.products.GetByID(ctx, sale.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.NotFound("producto", sale.ProductID)
	}

	item := tax.LineItem{UnitPrice: product.Price, Quantity: sale.QuantitySold, Category: product.Category}
	b, err := uc.table.ComputeInvoice([]tax.LineItem{item}, discount)
	if err != nil {
		return nil, nil, err
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		SaleID:        sale.ID,
		Subtotal:      b.Subtotal,
		TaxableAmount: b.TaxableAmount,
		ExemptAmount:  b.ExemptAmount,
		TaxAmount:     b.TaxAmount,
		Discount:      b.Discount,
		Total:         b.Total,
		InvoiceDate:   uc.now().UTC(),
		ProductName:   product.Name,
		Barcode:       product.Barcode,
		Category:      product.Category,
		TaxRate:       uc.table.LineRate(product.Category),
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, nil, err
	}

	uc.metrics.InvoiceCreated()
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("sale_id", sale.ID).
		Str("total", inv.Total.StringFixed(2)).
		Msg("factura emitida")

	return inv, []entity.InvoiceLine{snapshotLine(inv, sale, product.Price)}, nil
}

// PreviewInvoice calcula la factura sin persistir nada.
func (uc *InvoiceUseCase) PreviewInvoice(items []tax.LineItem, discount decimal.Decimal) (tax.Breakdown, []entity.InvoiceLine, error) {
	b, err := uc.table.ComputeInvoice(items, discount)
	if err != nil {
		return tax.Breakdown{}, nil, err
	}
	lines := make([]entity.InvoiceLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, entity.InvoiceLine{
			Category:  it.Category,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			TaxRate:   uc.table.LineRate(it.Category),
			Subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return b, lines, nil
}

// GetInvoice devuelve la factura y sus líneas reconstruidas desde la venta.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, []entity.InvoiceLine, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.NotFound("factura", id)
	}
	lines, err := uc.Lines(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	return inv, lines, nil
}

// ListInvoices facturas más recientes primero.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return uc.invoices.List(ctx, limit, offset)
}

// Lines reconstruye las líneas de una factura emitida desde la foto guardada en la factura.
// El precio unitario sale del subtotal persistido; nombre, categoría y tarifa son los del
// momento de facturar, así GET y PDF coinciden con el impuesto cobrado.
func (uc *InvoiceUseCase) Lines(ctx context.Context, inv *entity.Invoice) ([]entity.InvoiceLine, error) {
	sale, err := uc.sales.GetByID(ctx, inv.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", inv.SaleID)
	}
	unit := inv.Subtotal.Div(decimal.NewFromInt(int64(sale.QuantitySold))).Round(2)
	return []entity.InvoiceLine{snapshotLine(inv, sale, unit)}, nil
}

func snapshotLine(inv *entity.Invoice, sale *entity.Sale, unit decimal.Decimal) entity.InvoiceLine {
	return entity.InvoiceLine{
		ProductID:   sale.ProductID,
		ProductName: inv.ProductName,
		Barcode:     inv.Barcode,
		Category:    inv.Category,
		UnitPrice:   unit,
		Quantity:    sale.QuantitySold,
		TaxRate:     inv.TaxRate,
		Subtotal:    unit.Mul(decimal.NewFromInt(int64(sale.QuantitySold))),
	}
}
