package inventory

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// AlertDispatcher recibe el producto tras una mutación confirmada.
// Implementado por alerts.Dispatcher; nunca devuelve error (la entrega es best-effort).
type AlertDispatcher interface {
	MaybeAlert(ctx context.Context, p *entity.Product) bool
}
