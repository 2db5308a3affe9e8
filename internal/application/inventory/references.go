package inventory

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

// ReferenceValidator verifica que ubicación y proveedor existan antes de escribir un producto.
// Las lecturas no se serializan contra borrados concurrentes.
type ReferenceValidator struct {
	locations repository.LocationRepository
	suppliers repository.SupplierRepository
}

// NewReferenceValidator construye el validador.
func NewReferenceValidator(locations repository.LocationRepository, suppliers repository.SupplierRepository) *ReferenceValidator {
	return &ReferenceValidator{locations: locations, suppliers: suppliers}
}

// ValidateReferences devuelve InvalidReference con todos los campos rotos, no solo el primero.
// locationID es obligatorio; supplierID nil o vacío se omite.
func (v *ReferenceValidator) ValidateReferences(ctx context.Context, locationID string, supplierID *string) error {
	var broken []string

	if locationID == "" {
		broken = append(broken, "location_id")
	} else {
		ok, err := v.locations.Exists(ctx, locationID)
		if err != nil {
			return domain.Wrap("validate location", err)
		}
		if !ok {
			broken = append(broken, "location_id")
		}
	}

	if supplierID != nil && *supplierID != "" {
		ok, err := v.suppliers.Exists(ctx, *supplierID)
		if err != nil {
			return domain.Wrap("validate supplier", err)
		}
		if !ok {
			broken = append(broken, "supplier_id")
		}
	}

	if len(broken) > 0 {
		return domain.InvalidReference(broken...)
	}
	return nil
}
