package entity

import "time"

// Tipos de transacción de inventario.
const (
	TransactionInitial    = "initial"    // stock inicial al crear el producto
	TransactionSale       = "sale"       // salida por venta
	TransactionAdjustment = "adjustment" // ajuste manual (+/-)
	TransactionRestock    = "restock"    // entrada con costo
)

// InventoryTransaction registro de auditoría de cada mutación de stock.
type InventoryTransaction struct {
	ID             string
	ProductID      string
	QuantityChange int // positivo entrada, negativo salida
	Type           string
	UserID         string
	Reason         string
	ReferenceID    string // ej. ID de la venta
	CreatedAt      time.Time
}
