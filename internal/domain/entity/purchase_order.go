package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. Solo una orden pendiente puede recibirse o cancelarse.
const (
	PurchaseOrderPending   = "pending"  // emitida y enviada al proveedor
	PurchaseOrderReceived  = "received" // mercancía ingresada al stock
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrder orden de compra a un proveedor para una ubicación.
// TotalAmount = Σ Quantity * UnitCost de sus líneas.
type PurchaseOrder struct {
	ID          string
	PONumber    string
	SupplierID  string
	LocationID  string
	Status      string
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	ClosedAt    *time.Time // recepción o cancelación
	CreatedBy   string
	Items       []PurchaseOrderItem
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int
	UnitCost        decimal.Decimal
}

// Subtotal Quantity * UnitCost.
func (i PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsPending indica si la orden aún admite recepción o cancelación.
func (po *PurchaseOrder) IsPending() bool {
	return po.Status == PurchaseOrderPending
}
