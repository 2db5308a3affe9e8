package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjust.
// Delta positivo = entrada (UnitCost opcional recalcula el costo promedio); negativo = salida.
type AdjustStockRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Delta     int              `json:"delta" validate:"ne=0"`
	Reason    string           `json:"reason" validate:"omitempty,max=200"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	Product       ProductResponse `json:"product"`
	TransactionID string          `json:"transaction_id"`
	AlertRaised   bool            `json:"alert_raised"`
}

// TransactionResponse fila del log de auditoría de stock.
type TransactionResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	QuantityChange int       `json:"quantity_change"`
	Type           string    `json:"type"`
	UserID         string    `json:"user_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConservationResponse verificación de la ley de conservación: Sold + Current == Added.
type ConservationResponse struct {
	ProductID string `json:"product_id"`
	Added     int    `json:"added"`
	Sold      int    `json:"sold"`
	Current   int    `json:"current"`
	Balanced  bool   `json:"balanced"`
}

// StockAlertResponse alerta de stock bajo registrada.
type StockAlertResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	AlertType string    `json:"alert_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su umbral.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Barcode            string          `json:"barcode"`
	ProductName        string          `json:"product_name"`
	LocationID         string          `json:"location_id"`
	SupplierID         *string         `json:"supplier_id,omitempty"`
	CurrentStock       int             `json:"current_stock"`
	MinStockLevel      int             `json:"min_stock_level"`
	IdealStock         int             `json:"ideal_stock"`          // ceil(MinStockLevel * 1.5)
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	UnitsSoldLast90d   int             `json:"units_sold_last_90d"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
