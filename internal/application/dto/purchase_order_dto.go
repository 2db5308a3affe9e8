package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea solicitada.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body de POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required"`
	LocationID string                     `json:"location_id" validate:"required"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ListPurchaseOrdersRequest query params del listado.
type ListPurchaseOrdersRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=pending received cancelled"`
	SupplierID string `query:"supplier_id"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse orden de compra. Items se omite en listados.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	PONumber    string                      `json:"po_number"`
	SupplierID  string                      `json:"supplier_id"`
	LocationID  string                      `json:"location_id"`
	Status      string                      `json:"status"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	OrderDate   time.Time                   `json:"order_date"`
	ClosedAt    *time.Time                  `json:"closed_at,omitempty"`
	CreatedBy   string                      `json:"created_by,omitempty"`
	Items       []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderListResponse página de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// SkippedSuggestionDTO sugerencia de reposición que no generó orden.
type SkippedSuggestionDTO struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"` // no_supplier, pending_order, nothing_to_order
}

// GeneratePurchaseOrdersResponse resultado de generar órdenes desde la lista de reposición.
type GeneratePurchaseOrdersResponse struct {
	Created []PurchaseOrderResponse `json:"created"`
	Skipped []SkippedSuggestionDTO  `json:"skipped"`
}
