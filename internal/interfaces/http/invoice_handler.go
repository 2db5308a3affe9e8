package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/billing"
	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
)

// InvoiceHandler maneja facturación: emisión, vista previa, consulta y PDF.
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler. pdf nil deshabilita GET /:id/pdf.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Emitir factura de una venta
// @Description  Una sola factura por venta. Total = subtotal + IVA - descuento.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "sale_id, discount"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	inv, lines, err := h.uc.CreateInvoice(c.UserContext(), in.SaleID, in.Discount)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv, lines))
}

// Preview godoc
// @Summary      Calcular factura sin persistir
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewInvoiceRequest  true  "items, discount"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewInvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	items := make([]tax.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, tax.LineItem{UnitPrice: it.UnitPrice, Quantity: it.Quantity, Category: it.Category})
	}
	b, lines, err := h.uc.PreviewInvoice(items, in.Discount)
	if err != nil {
		return err
	}
	return c.JSON(toInvoiceResponse(&entity.Invoice{
		Subtotal:      b.Subtotal,
		TaxableAmount: b.TaxableAmount,
		ExemptAmount:  b.ExemptAmount,
		TaxAmount:     b.TaxAmount,
		Discount:      b.Discount,
		Total:         b.Total,
	}, lines))
}

// GetByID godoc
// @Summary      Obtener factura con sus líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, lines, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toInvoiceResponse(inv, lines))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	page.DefaultPage()
	rows, err := h.uc.ListInvoices(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.InvoiceResponse, 0, len(rows))
	for _, inv := range rows {
		items = append(items, toInvoiceResponse(inv, nil))
	}
	return c.JSON(dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// PDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return domain.Validation("generación de PDF no configurada")
	}
	id := c.Params("id")
	path, err := h.pdf.RenderInvoicePDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Download(path, fmt.Sprintf("factura_%s.pdf", id))
}

func toInvoiceResponse(inv *entity.Invoice, lines []entity.InvoiceLine) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:            inv.ID,
		SaleID:        inv.SaleID,
		Subtotal:      inv.Subtotal,
		TaxableAmount: inv.TaxableAmount,
		ExemptAmount:  inv.ExemptAmount,
		TaxAmount:     inv.TaxAmount,
		Discount:      inv.Discount,
		Total:         inv.Total,
	}
	if !inv.InvoiceDate.IsZero() {
		d := inv.InvoiceDate
		out.InvoiceDate = &d
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.InvoiceLineDTO{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Category:    l.Category,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}
