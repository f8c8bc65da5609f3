// Package ingest contiene el caso de uso de carga masiva: lee el dataset
// CSV, recrea el esquema, inserta en orden de dependencias y verifica los
// totales contra el motor.
package ingest

import (
	"context"
	"fmt"

	"github.com/jhoicas/dashboard-bi-api/internal/application/dto"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/jhoicas/dashboard-bi-api/pkg/logger"
)

// DatasetSource abstrae el origen del dataset (archivos CSV en disco).
type DatasetSource interface {
	ReadDataset() (*repository.Dataset, error)
}

// UseCase orquesta la inicialización y carga de la base de reportes.
type UseCase struct {
	source DatasetSource
	loader repository.BulkLoader
	status repository.StatusRepository
	log    *logger.Logger
}

// NewUseCase construye el caso de uso de carga.
func NewUseCase(source DatasetSource, loader repository.BulkLoader, status repository.StatusRepository, log *logger.Logger) *UseCase {
	return &UseCase{source: source, loader: loader, status: status, log: log}
}

// LoadAll ejecuta el pipeline completo: leer CSV → recrear esquema → carga
// masiva → verificación. Destruye las tablas existentes; pensado para
// entornos de demo y recarga completa, no para cargas incrementales.
func (uc *UseCase) LoadAll(ctx context.Context) (*dto.LoadReportDTO, error) {
	uc.log.Info().Msg("leyendo dataset CSV")
	ds, err := uc.source.ReadDataset()
	if err != nil {
		return nil, fmt.Errorf("ingest: leer dataset: %w", err)
	}

	uc.log.Info().Msg("recreando esquema")
	if err := uc.loader.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("ingest: crear esquema: %w", err)
	}

	uc.log.Info().Msg("insertando datos")
	counts, err := uc.loader.Load(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("ingest: carga masiva: %w", err)
	}
	for _, tc := range counts {
		uc.log.Info().Str("tabla", tc.Table).Int64("filas", tc.Rows).Msg("tabla cargada")
	}

	metrics, err := uc.loader.Verify(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: verificación: %w", err)
	}
	uc.log.Info().
		Str("ventas_brutas", metrics.GrossSales.StringFixed(2)).
		Str("descuentos", metrics.TotalDiscounts.StringFixed(2)).
		Int64("ordenes", metrics.TotalOrders).
		Msg("verificación post-carga")

	return &dto.LoadReportDTO{
		Status:  "ok",
		Tables:  counts,
		Metrics: metrics,
	}, nil
}

// DatabaseStatus conteo de filas por tabla. Tablas inexistentes se reportan
// en lugar de fallar, para poder consultar el estado antes de la primera
// carga.
func (uc *UseCase) DatabaseStatus(ctx context.Context) (*dto.DatabaseStatusDTO, error) {
	counts, err := uc.status.TableCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: estado de tablas: %w", err)
	}

	status := "ok"
	for _, tc := range counts {
		if tc.Err != "" {
			status = "incompleto"
			break
		}
	}
	return &dto.DatabaseStatusDTO{Status: status, Counts: counts}, nil
}
