package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dashboard-bi-api/internal/application/ingest"
	"github.com/jhoicas/dashboard-bi-api/internal/application/reporting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportingUC *reporting.UseCase
	IngestUC    *ingest.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Reportes (solo lectura); rutas consumidas por el dashboard
	api := app.Group("/api")
	reportingHandler := NewReportingHandler(deps.ReportingUC)
	api.Get("/filters", reportingHandler.GetFilters)
	api.Get("/kpis", reportingHandler.GetKPIs)
	api.Get("/monthly-trend", reportingHandler.GetMonthlyTrend)
	api.Get("/sales-by-city", reportingHandler.GetSalesByCity)
	api.Get("/sales-by-channel", reportingHandler.GetSalesByChannel)
	api.Get("/sales-by-category", reportingHandler.GetSalesByCategory)
	api.Get("/top-products", reportingHandler.GetTopProducts)
	api.Get("/new-vs-returning", reportingHandler.GetNewVsReturning)

	// Administración (carga y estado de la base)
	admin := app.Group("/admin")
	adminHandler := NewAdminHandler(deps.IngestUC)
	admin.Post("/init-database", adminHandler.InitDatabase)
	admin.Get("/database-status", adminHandler.DatabaseStatus)
}
