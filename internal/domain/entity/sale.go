package entity

import "time"

// Sale es un hecho inmutable: unidades vendidas de un producto.
// Se crea en la misma transacción que el descuento de stock.
type Sale struct {
	ID           string
	ProductID    string
	QuantitySold int
	SaleDate     time.Time
	UserID       string
}
