package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
)

var _ repository.StatusRepository = (*StatusRepo)(nil)

// StatusRepo probe de estado de la base de datos.
type StatusRepo struct {
	pool *pgxpool.Pool
}

// NewStatusRepository construye el probe.
func NewStatusRepository(pool *pgxpool.Pool) *StatusRepo {
	return &StatusRepo{pool: pool}
}

// reportTables tablas del schema, en orden de carga.
var reportTables = []string{"customers", "stores", "products", "orders", "order_items", "returns"}

// TableCounts cuenta filas por tabla. Una tabla inexistente se reporta en el
// campo Err de su entrada; cualquier otro error aborta el probe.
func (r *StatusRepo) TableCounts(ctx context.Context) ([]repository.TableStatus, error) {
	statuses := make([]repository.TableStatus, 0, len(reportTables))
	for _, table := range reportTables {
		// El nombre viene de la lista fija de arriba, nunca de input externo.
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)

		var count int64
		if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
			if isUndefinedTable(err) {
				statuses = append(statuses, repository.TableStatus{Table: table, Err: "tabla no existe"})
				continue
			}
			return nil, fmt.Errorf("status.TableCounts %s: %w", table, err)
		}
		statuses = append(statuses, repository.TableStatus{Table: table, Rows: count})
	}
	return statuses, nil
}
