package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// DashboardHandler maneja el resumen financiero mensual y sus reportes.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Current godoc
// @Summary      Resumen del mes en curso
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MonthlyOverviewResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.CurrentMonth(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Resumen de un mes concreto
// @Description  Crea la fila del mes en ceros si es la primera consulta.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        year   path  int  true  "Año"
// @Param        month  path  int  true  "Mes (1-12)"
// @Success      200    {object}  dto.MonthlyOverviewResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/dashboard/{year}/{month} [get]
func (h *DashboardHandler) Monthly(c *fiber.Ctx) error {
	year, errYear := c.ParamsInt("year")
	month, errMonth := c.ParamsInt("month")
	if errYear != nil || errMonth != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "year y month deben ser numéricos"})
	}
	out, err := h.uc.Monthly(c.Context(), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MonthlyReport godoc
// @Summary      Histórico mensual completo
// @Description  Todas las filas del dashboard, más reciente primero.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReportRowResponse
// @Router       /api/dashboard/reports/monthly [get]
func (h *DashboardHandler) MonthlyReport(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// YearlyReport godoc
// @Summary      Histórico agregado por año
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReportRowResponse
// @Router       /api/dashboard/reports/yearly [get]
func (h *DashboardHandler) YearlyReport(c *fiber.Ctx) error {
	out, err := h.uc.YearlyReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Exportar resumen mensual en PDF
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Param        year   path  int  true  "Año"
// @Param        month  path  int  true  "Mes (1-12)"
// @Success      200    {file}  binary
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/dashboard/{year}/{month}/pdf [get]
func (h *DashboardHandler) ExportPDF(c *fiber.Ctx) error {
	year, errYear := c.ParamsInt("year")
	month, errMonth := c.ParamsInt("month")
	if errYear != nil || errMonth != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "year y month deben ser numéricos"})
	}
	data, err := h.uc.ExportMonthlyPDF(c.Context(), year, month)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="resumen-%04d-%02d.pdf"`, year, month))
	return c.Send(data)
}
