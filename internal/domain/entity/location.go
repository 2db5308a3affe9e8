package entity

import "time"

// Location representa una tienda o bodega donde vive el stock de un producto.
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}
