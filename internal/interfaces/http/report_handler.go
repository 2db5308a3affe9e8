package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/analytics"
	"github.com/jhoicas/retail-inventory/internal/application/dto"
)

// ReportHandler expone los reportes de ventas, inventario y financiero.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Description  Sin fechas usa el mes en curso.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Param        location_id  query  string  false  "Ubicación"
// @Success      200          {object}  dto.SalesReportDTO
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var in dto.ReportRangeRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SalesReport(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Valorización de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación"
// @Success      200          {object}  dto.InventoryReportDTO
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.InventoryReport(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Financial godoc
// @Summary      Reporte financiero
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200         {object}  dto.FinancialReportDTO
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/reports/financial [get]
func (h *ReportHandler) Financial(c *fiber.Ctx) error {
	var in dto.ReportRangeRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.FinancialReport(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
