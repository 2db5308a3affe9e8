package entity

import "time"

// Tipos de alerta de stock.
const (
	AlertTypeLowStock = "low_stock"
)

// StockAlert registro append-only de notificaciones de stock bajo.
type StockAlert struct {
	ID        string
	ProductID string
	AlertType string
	CreatedAt time.Time
}
