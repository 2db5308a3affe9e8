package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/alerts"
	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/usecase"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// InventoryHandler maneja ajustes de stock, historial, alertas y reposición.
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	history       *inventory.HistoryUseCase
	replenishment *inventory.ReplenishmentUseCase
	alerts        *alerts.Dispatcher
	products      *usecase.ProductUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	history *inventory.HistoryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	dispatcher *alerts.Dispatcher,
	products *usecase.ProductUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		ledger:        ledger,
		history:       history,
		replenishment: replenishment,
		alerts:        dispatcher,
		products:      products,
	}
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  delta positivo = entrada (unit_cost opcional recalcula el costo promedio); negativo = salida.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, reason, unit_cost"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	res, err := h.ledger.AdjustStock(c.UserContext(), inventory.AdjustInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		UserID:    GetUserID(c),
		Reason:    in.Reason,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.AdjustStockResponse{
		Product:       *h.products.ToResponse(res.Product),
		TransactionID: res.Transaction.ID,
		AlertRaised:   res.AlertRaised,
	})
}

// History godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Límite"  default(100)
// @Success      200    {array}   dto.TransactionResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/products/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	rows, err := h.history.ProductHistory(c.UserContext(), c.Params("id"), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	out := make([]dto.TransactionResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(out)
}

// Conservation godoc
// @Summary      Verificar conservación de stock
// @Description  added (entradas) debe ser igual a sold (salidas) + current.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ConservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/conservation [get]
func (h *InventoryHandler) Conservation(c *fiber.Ctx) error {
	r, err := h.history.Conservation(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ConservationResponse{
		ProductID: r.ProductID,
		Added:     r.Added,
		Sold:      r.Sold,
		Current:   r.Current,
		Balanced:  r.Balanced(),
	})
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Success      200         {array}  dto.StockAlertResponse
// @Router       /api/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	rows, err := h.alerts.List(c.UserContext(), c.Query("product_id"), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	out := make([]dto.StockAlertResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.StockAlertResponse{ID: a.ID, ProductID: a.ProductID, AlertType: a.AlertType, CreatedAt: a.CreatedAt})
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición sugerida
// @Description  Productos en o bajo su umbral, priorizados por ventas de los últimos 90 días.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200          {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func toTransactionResponse(t *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:             t.ID,
		ProductID:      t.ProductID,
		QuantityChange: t.QuantityChange,
		Type:           t.Type,
		UserID:         t.UserID,
		Reason:         t.Reason,
		ReferenceID:    t.ReferenceID,
		CreatedAt:      t.CreatedAt,
	}
}
