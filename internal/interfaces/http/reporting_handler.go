package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dashboard-bi-api/internal/application/dto"
	"github.com/jhoicas/dashboard-bi-api/internal/application/reporting"
	"github.com/jhoicas/dashboard-bi-api/internal/domain"
)

// ReportingHandler maneja los endpoints de reportes del dashboard.
type ReportingHandler struct {
	uc *reporting.UseCase
}

// NewReportingHandler construye el handler.
func NewReportingHandler(uc *reporting.UseCase) *ReportingHandler {
	return &ReportingHandler{uc: uc}
}

// parseQuery lee los query params comunes de todos los reportes.
func parseQuery(c *fiber.Ctx) (dto.ReportQuery, error) {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, nil
}

// reportError mapea errores del caso de uso a respuestas HTTP. Fechas y
// parámetros inválidos son errores del cliente; el resto es interno.
func reportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: err.Error(),
	})
}

// GetFilters godoc
// @Summary      Valores disponibles para los selectores del dashboard
// @Description  Ciudades, canales, categorías y meses presentes en los datos,
//               más el rango de fechas de las órdenes.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.FiltersDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/filters [get]
func (h *ReportingHandler) GetFilters(c *fiber.Ctx) error {
	filters, err := h.uc.GetFilters(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(filters)
}

// GetKPIs godoc
// @Summary      Resumen ejecutivo de KPIs
// @Description  Ventas netas MTD/YTD, margen bruto, órdenes, unidades, AOV y
//               tasa de devolución sobre órdenes pagadas del período filtrado.
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        city        query  string  false  "Ciudad de la tienda"
// @Param        channel     query  string  false  "Canal de adquisición del cliente"
// @Success      200  {object}  dto.KPIsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/kpis [get]
func (h *ReportingHandler) GetKPIs(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	kpis, err := h.uc.GetKPIs(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(kpis)
}

// GetMonthlyTrend godoc
// @Summary      Tendencia mensual de ventas
// @Description  Serie mensual de ventas brutas, descuentos, devoluciones,
//               neto y variación porcentual contra el mes anterior presente.
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        city        query  string  false  "Ciudad de la tienda"
// @Param        channel     query  string  false  "Canal de adquisición del cliente"
// @Success      200  {array}   dto.MonthlyTrendDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/monthly-trend [get]
func (h *ReportingHandler) GetMonthlyTrend(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	trend, err := h.uc.GetMonthlyTrend(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(trend)
}

// GetSalesByCity godoc
// @Summary      Ventas netas por ciudad
// @Description  Desglose descendente por ciudad de la tienda. El filtro de
//               ciudad se ignora en este reporte.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.CitySalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales-by-city [get]
func (h *ReportingHandler) GetSalesByCity(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	rows, err := h.uc.GetSalesByCity(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

// GetSalesByChannel godoc
// @Summary      Ventas por canal de adquisición
// @Description  Ventas y órdenes por canal del cliente; clientes sin canal se
//               agrupan bajo "unknown". El filtro de canal se ignora.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.ChannelSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales-by-channel [get]
func (h *ReportingHandler) GetSalesByChannel(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	rows, err := h.uc.GetSalesByChannel(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

// GetSalesByCategory godoc
// @Summary      Ventas por categoría con participación
// @Description  Ventas por categoría de producto y porcentaje de mezcla sobre
//               el total del resultado.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.CategorySalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales-by-category [get]
func (h *ReportingHandler) GetSalesByCategory(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	rows, err := h.uc.GetSalesByCategory(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

// GetTopProducts godoc
// @Summary      Top 10 de grupos de producto por margen bruto
// @Description  Ranking por margen (ingresos − COGS) de grupos
//               categoría/marca, con porcentaje de margen.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.TopProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/top-products [get]
func (h *ReportingHandler) GetTopProducts(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	rows, err := h.uc.GetTopProducts(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

// GetNewVsReturning godoc
// @Summary      Clientes nuevos vs recurrentes por mes
// @Description  Conteo mensual de clientes que compran por primera vez frente
//               a los que repiten, dentro de la ventana filtrada.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.NewVsReturningDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/new-vs-returning [get]
func (h *ReportingHandler) GetNewVsReturning(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	rows, err := h.uc.GetNewVsReturning(c.Context(), q)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}
