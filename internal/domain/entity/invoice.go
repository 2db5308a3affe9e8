package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura calculada una sola vez a partir de una venta. No tiene ruta de actualización.
// Total = Subtotal + TaxAmount - Discount.
type Invoice struct {
	ID            string
	SaleID        string
	Subtotal      decimal.Decimal
	TaxableAmount decimal.Decimal
	ExemptAmount  decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	InvoiceDate   time.Time

	// foto del producto al facturar; no cambia si el producto se edita después
	ProductName string
	Barcode     string
	Category    string
	TaxRate     decimal.Decimal
}

// InvoiceLine línea de detalle usada para PDF y vista previa (snapshot de venta + producto).
type InvoiceLine struct {
	ProductID   string
	ProductName string
	Barcode     string
	Category    string
	UnitPrice   decimal.Decimal
	Quantity    int
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}
