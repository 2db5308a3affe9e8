package dto

import "time"

// RecordSaleRequest body para POST /api/sales.
type RecordSaleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	QuantitySold int       `json:"quantity_sold"`
	SaleDate     time.Time `json:"sale_date"`
	UserID       string    `json:"user_id,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
