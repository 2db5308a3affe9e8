package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/purchasing"
)

// PurchaseOrderHandler órdenes de compra a proveedores.
type PurchaseOrderHandler struct {
	uc *purchasing.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir orden de compra
// @Description  Crea la orden pendiente y la envía por email al proveedor (best-effort). unit_cost 0 usa el costo del producto.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseOrderRequest  true  "supplier_id, location_id, items"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	po, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(purchasing.ToResponse(po))
}

// Generate godoc
// @Summary      Generar órdenes desde la reposición
// @Description  Una orden por proveedor con las sugerencias de reposición. Omite productos sin proveedor o con orden pendiente.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        location_id  query     string  false  "Ubicación (vacío = todas)"
// @Success      201          {object}  dto.GeneratePurchaseOrdersResponse
// @Router       /api/purchase-orders/generate [post]
func (h *PurchaseOrderHandler) Generate(c *fiber.Ctx) error {
	res, err := h.uc.GenerateFromReplenishment(c.UserContext(), GetUserID(c), c.Query("location_id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query     string  false  "pending, received, cancelled"
// @Param        supplier_id  query     string  false  "Proveedor"
// @Param        limit        query     int     false  "Límite"  default(20)
// @Param        offset       query     int     false  "Offset"  default(0)
// @Success      200          {object}  dto.PurchaseOrderListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	var q dto.ListPurchaseOrdersRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	res, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(purchasing.ToResponse(po))
}

// Receive godoc
// @Summary      Recibir orden de compra
// @Description  Ingresa cada línea al stock con su costo y marca la orden como recibida.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	po, err := h.uc.Receive(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(purchasing.ToResponse(po))
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(purchasing.ToResponse(po))
}
