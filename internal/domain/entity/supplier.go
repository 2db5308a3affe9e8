package entity

import "time"

// Supplier proveedor de productos (referencia opcional desde Product).
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
