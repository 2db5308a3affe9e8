package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/sales"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// HeaderIdempotencyKey deduplica reintentos de POST /api/sales.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler maneja el registro y consulta de ventas.
type SaleHandler struct {
	uc *sales.RecordSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.RecordSaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock y crea la venta en una sola transacción. Idempotency-Key opcional.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.RecordSaleRequest  true   "product_id, quantity"
// @Success      201              {object}  dto.SaleResponse
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	sale, err := h.uc.RecordSale(c.UserContext(), sales.RecordSaleInput{
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UserID:         GetUserID(c),
		IdempotencyKey: c.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	page.DefaultPage()
	rows, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.SaleResponse, 0, len(rows))
	for _, s := range rows {
		items = append(items, toSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		QuantitySold: s.QuantitySold,
		SaleDate:     s.SaleDate,
		UserID:       s.UserID,
	}
}
