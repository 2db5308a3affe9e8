package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Barcode vacío = se genera uno del tipo BarcodeType (EAN13 por defecto).
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Barcode       string          `json:"barcode" validate:"omitempty,max=32"`
	BarcodeType   string          `json:"barcode_type" validate:"omitempty,oneof=EAN13 UPC INTERNAL"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Quantity      int             `json:"quantity" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	Category      string          `json:"category" validate:"omitempty,max=60"`
	LocationID    string          `json:"location_id" validate:"required"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Quantity ni CostPrice).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode       *string          `json:"barcode" validate:"omitempty,max=32"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	Category      *string          `json:"category" validate:"omitempty,max=60"`
	LocationID    *string          `json:"location_id"`
	SupplierID    *string          `json:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	StockStatus   string          `json:"stock_status"` // low, medium, healthy
	Category      string          `json:"category"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	LocationID    string          `json:"location_id"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	LastAlertAt   *time.Time      `json:"last_alert_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductFilterRequest query params de GET /api/products.
type ProductFilterRequest struct {
	PageRequest
	Category   string `query:"category"`
	LocationID string `query:"location_id"`
}

// BarcodeResponse código generado o validado.
type BarcodeResponse struct {
	Code  string `json:"code"`
	Type  string `json:"type,omitempty"`
	Valid bool   `json:"valid"`
}
