package dto

import "github.com/jhoicas/dashboard-bi-api/internal/domain/repository"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoadReportDTO resultado de la carga masiva.
type LoadReportDTO struct {
	Status  string                   `json:"status"`
	Tables  []repository.TableCount  `json:"tables"`
	Metrics *repository.LoadMetrics `json:"metrics,omitempty"`
}

// DatabaseStatusDTO estado de las tablas del schema.
type DatabaseStatusDTO struct {
	Status string                   `json:"status"`
	Counts []repository.TableStatus `json:"counts"`
}
