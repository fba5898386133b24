package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
)

// ReportHandler maneja las peticiones HTTP para reportes (protegido, solo manager).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas de un período
// @Description  Conteo, unidades, ingresos, COGS y utilidad, con desglose por método de pago y top de ítems.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde (RFC3339)"
// @Param        to    query  string  true  "Hasta (RFC3339)"
// @Success      200   {object}  dto.SalesReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil || from == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from es requerido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil || to == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to es requerido (RFC3339)"})
	}

	out, err := h.uc.SalesReport(c.Context(), dto.SalesReportRequest{From: *from, To: *to})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Description  Estado agregado del catálogo activo e ítems con stock bajo el umbral.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        low_stock_threshold  query  int  false  "Umbral de stock bajo"  default(5)
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	threshold := c.QueryInt("low_stock_threshold", 5)
	out, err := h.uc.InventoryReport(c.Context(), int64(threshold))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
