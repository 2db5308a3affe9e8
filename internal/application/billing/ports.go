package billing

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// InvoicePDFRenderer genera la representación gráfica de una factura y devuelve la ruta del archivo.
type InvoicePDFRenderer interface {
	RenderInvoice(ctx context.Context, inv *entity.Invoice, lines []entity.InvoiceLine) (string, error)
}
