package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dashboard-bi-api/internal/application/dto"
	"github.com/jhoicas/dashboard-bi-api/internal/application/ingest"
	"github.com/jhoicas/dashboard-bi-api/internal/domain"
)

// AdminHandler maneja los endpoints de administración de la base de reportes.
type AdminHandler struct {
	uc *ingest.UseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *ingest.UseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// InitDatabase godoc
// @Summary      Recrear el esquema y cargar el dataset CSV
// @Description  Elimina las tablas, las vuelve a crear e inserta los seis
//               archivos CSV del directorio de datos. Operación destructiva;
//               pensada para entornos de demo.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.LoadReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /admin/init-database [post]
func (h *AdminHandler) InitDatabase(c *fiber.Ctx) error {
	report, err := h.uc.LoadAll(c.Context())
	if err != nil {
		code := "INTERNAL"
		if errors.Is(err, domain.ErrMissingData) {
			code = "MISSING_DATA"
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: code, Message: err.Error(),
		})
	}
	return c.JSON(report)
}

// DatabaseStatus godoc
// @Summary      Conteo de filas por tabla
// @Description  Estado de las seis tablas del esquema de reportes. Tablas
//               inexistentes se reportan sin abortar el probe.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.DatabaseStatusDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /admin/database-status [get]
func (h *AdminHandler) DatabaseStatus(c *fiber.Ctx) error {
	status, err := h.uc.DatabaseStatus(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(status)
}
