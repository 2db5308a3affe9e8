package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Permisos evaluados por el middleware.
const (
	PermInventoryRead   = "inventory:read"
	PermInventoryWrite  = "inventory:write"
	PermSalesWrite      = "sales:write"
	PermInvoicesWrite   = "invoices:write"
	PermReportsRead     = "reports:read"
	PermPurchasingWrite = "purchasing:write"
)

var rolePermissions = map[string][]string{
	RoleAdmin:   {PermInventoryRead, PermInventoryWrite, PermSalesWrite, PermInvoicesWrite, PermReportsRead, PermPurchasingWrite},
	RoleManager: {PermInventoryRead, PermInventoryWrite, PermSalesWrite, PermInvoicesWrite, PermReportsRead, PermPurchasingWrite},
	RoleStaff:   {PermInventoryRead, PermSalesWrite},
}

// PermissionsFor devuelve los permisos del rol (vacío si el rol no existe).
func PermissionsFor(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, manager, staff
	CreatedAt    time.Time
}
