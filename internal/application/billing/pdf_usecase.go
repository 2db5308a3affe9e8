package billing

import (
	"context"
	"fmt"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura emitida.
type PDFUseCase struct {
	invoices *InvoiceUseCase
	renderer InvoicePDFRenderer
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoices *InvoiceUseCase, renderer InvoicePDFRenderer) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, renderer: renderer}
}

// RenderInvoicePDF carga la factura y sus líneas y devuelve la ruta del PDF generado.
//
// Retorna:
//   - (path, nil)         si todo sale bien.
//   - domain.ErrNotFound  si la factura no existe.
func (uc *PDFUseCase) RenderInvoicePDF(ctx context.Context, invoiceID string) (string, error) {
	inv, lines, err := uc.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	path, err := uc.renderer.RenderInvoice(ctx, inv, lines)
	if err != nil {
		return "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return path, nil
}
