// Package datastore selecciona el adaptador de persistencia por configuración.
// Es el único punto del sistema que conoce ambos motores: el resto del código
// trabaja contra las interfaces de internal/domain/repository.
package datastore

import (
	"context"
	"fmt"

	"github.com/jhoicas/dashboard-bi-api/internal/domain"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/mysql"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dashboard-bi-api/pkg/config"
)

// Store agrupa los adaptadores del motor seleccionado.
type Store struct {
	Reporting repository.ReportingRepository
	Loader    repository.BulkLoader
	Status    repository.StatusRepository

	close func()
}

// Close libera el pool/las conexiones del motor.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// New construye los adaptadores según cfg.Engine. Variante cerrada sobre
// {postgres, mysql}: un motor nuevo se agrega aquí, no con detección dinámica
// de drivers.
func New(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	switch cfg.Engine {
	case config.EnginePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("datastore postgres: %w", err)
		}
		return &Store{
			Reporting: postgres.NewReportingRepository(pool),
			Loader:    postgres.NewBulkLoader(pool),
			Status:    postgres.NewStatusRepository(pool),
			close:     pool.Close,
		}, nil

	case config.EngineMySQL:
		db, err := mysql.NewDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("datastore mysql: %w", err)
		}
		return &Store{
			Reporting: mysql.NewReportingRepository(db),
			Loader:    mysql.NewBulkLoader(db),
			Status:    mysql.NewStatusRepository(db),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEngine, cfg.Engine)
	}
}
