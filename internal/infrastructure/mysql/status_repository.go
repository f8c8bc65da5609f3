package mysql

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
)

var _ repository.StatusRepository = (*StatusRepo)(nil)

// StatusRepo probe de estado de la base de datos.
type StatusRepo struct {
	db *sqlx.DB
}

// NewStatusRepository construye el probe.
func NewStatusRepository(db *sqlx.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// reportTables tablas del schema, en orden de carga.
var reportTables = []string{"customers", "stores", "products", "orders", "order_items", "returns"}

// TableCounts cuenta filas por tabla. Una tabla inexistente (ER_NO_SUCH_TABLE,
// 1146) se reporta en el campo Err de su entrada sin abortar el resto.
func (r *StatusRepo) TableCounts(ctx context.Context) ([]repository.TableStatus, error) {
	statuses := make([]repository.TableStatus, 0, len(reportTables))
	for _, table := range reportTables {
		// El nombre viene de la lista fija de arriba, nunca de input externo.
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)

		var count int64
		if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			var myErr *gomysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == 1146 {
				statuses = append(statuses, repository.TableStatus{Table: table, Err: "tabla no existe"})
				continue
			}
			return nil, fmt.Errorf("status.TableCounts %s: %w", table, err)
		}
		statuses = append(statuses, repository.TableStatus{Table: table, Rows: count})
	}
	return statuses, nil
}
