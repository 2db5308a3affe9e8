package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	SaleID   string          `json:"sale_id" validate:"required"`
	Discount decimal.Decimal `json:"discount"`
}

// PreviewItemRequest línea para calcular una factura sin persistirla.
type PreviewItemRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
}

// PreviewInvoiceRequest body para POST /api/invoices/preview.
type PreviewInvoiceRequest struct {
	Items    []PreviewItemRequest `json:"items" validate:"required,min=1"`
	Discount decimal.Decimal      `json:"discount"`
}

// InvoiceLineDTO línea de factura con su tarifa aplicada.
type InvoiceLineDTO struct {
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Category    string          `json:"category"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura calculada o persistida. ID y SaleID vacíos en una vista previa.
type InvoiceResponse struct {
	ID            string           `json:"id,omitempty"`
	SaleID        string           `json:"sale_id,omitempty"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	ExemptAmount  decimal.Decimal  `json:"exempt_amount"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	InvoiceDate   *time.Time       `json:"invoice_date,omitempty"`
	Lines         []InvoiceLineDTO `json:"lines,omitempty"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
