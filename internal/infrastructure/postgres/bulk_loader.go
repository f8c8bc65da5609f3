package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

var _ repository.BulkLoader = (*BulkLoaderRepo)(nil)

// BulkLoaderRepo carga masiva sobre PostgreSQL vía COPY.
// Un solo escritor; no es segura frente a lectores concurrentes (restricción
// operativa aceptada: la carga corre antes de servir reportes).
type BulkLoaderRepo struct {
	pool *pgxpool.Pool
}

// NewBulkLoader construye el cargador.
func NewBulkLoader(pool *pgxpool.Pool) *BulkLoaderRepo {
	return &BulkLoaderRepo{pool: pool}
}

// InitSchema elimina y recrea las seis tablas.
func (l *BulkLoaderRepo) InitSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("loader.InitSchema: %w", err)
	}
	return nil
}

// Load inserta el dataset completo en orden de FKs usando CopyFrom y ajusta
// las secuencias seriales al máximo ID insertado.
func (l *BulkLoaderRepo) Load(ctx context.Context, ds *repository.Dataset) ([]repository.TableCount, error) {
	var counts []repository.TableCount

	copyTable := func(table string, columns []string, length int, row func(i int) []any) error {
		if length == 0 {
			counts = append(counts, repository.TableCount{Table: table, Rows: 0})
			return nil
		}
		n, err := l.pool.CopyFrom(
			ctx,
			pgx.Identifier{table},
			columns,
			pgx.CopyFromSlice(length, func(i int) ([]any, error) { return row(i), nil }),
		)
		if err != nil {
			return fmt.Errorf("loader.Load %s: %w", table, err)
		}
		counts = append(counts, repository.TableCount{Table: table, Rows: n})
		return nil
	}

	if err := copyTable("customers",
		[]string{"customer_id", "created_at", "country", "channel"},
		len(ds.Customers), func(i int) []any {
			c := ds.Customers[i]
			return []any{c.ID, c.CreatedAt, c.Country, c.Channel}
		}); err != nil {
		return nil, err
	}

	if err := copyTable("stores",
		[]string{"store_id", "store_name", "city"},
		len(ds.Stores), func(i int) []any {
			s := ds.Stores[i]
			return []any{s.ID, s.Name, s.City}
		}); err != nil {
		return nil, err
	}

	if err := copyTable("products",
		[]string{"product_id", "category", "brand"},
		len(ds.Products), func(i int) []any {
			p := ds.Products[i]
			return []any{p.ID, p.Category, p.Brand}
		}); err != nil {
		return nil, err
	}

	if err := copyTable("orders",
		[]string{"order_id", "customer_id", "store_id", "order_date", "status", "total_amount", "discount_amount", "shipping_amount"},
		len(ds.Orders), func(i int) []any {
			o := ds.Orders[i]
			return []any{o.ID, o.CustomerID, o.StoreID, o.OrderDate, o.Status, o.TotalAmount, o.DiscountAmount, o.ShippingAmount}
		}); err != nil {
		return nil, err
	}

	if err := copyTable("order_items",
		[]string{"order_item_id", "order_id", "product_id", "qty", "unit_price", "unit_cost"},
		len(ds.Items), func(i int) []any {
			it := ds.Items[i]
			return []any{it.ID, it.OrderID, it.ProductID, it.Qty, it.UnitPrice, it.UnitCost}
		}); err != nil {
		return nil, err
	}

	if err := copyTable("returns",
		[]string{"return_id", "order_id", "return_date", "amount_returned", "reason"},
		len(ds.Returns), func(i int) []any {
			rt := ds.Returns[i]
			return []any{rt.ID, rt.OrderID, rt.ReturnDate, rt.AmountReturned, rt.Reason}
		}); err != nil {
		return nil, err
	}

	if err := l.resetSequences(ctx); err != nil {
		return nil, err
	}

	return counts, nil
}

// resetSequences ajusta cada secuencia serial al MAX del ID insertado, para
// que inserciones posteriores no colisionen con los IDs del dataset.
func (l *BulkLoaderRepo) resetSequences(ctx context.Context) error {
	sequences := []struct{ table, column string }{
		{"customers", "customer_id"},
		{"stores", "store_id"},
		{"products", "product_id"},
		{"orders", "order_id"},
		{"order_items", "order_item_id"},
		{"returns", "return_id"},
	}
	for _, s := range sequences {
		query := fmt.Sprintf(
			`SELECT setval('%s_%s_seq', (SELECT COALESCE(MAX(%s), 1) FROM %s))`,
			s.table, s.column, s.column, s.table,
		)
		if _, err := l.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("loader.resetSequences %s: %w", s.table, err)
		}
	}
	return nil
}

// Verify métricas de sanidad post-carga sobre órdenes pagadas. Los descuentos
// se suman sobre orders directamente para no multiplicarlos por línea.
func (l *BulkLoaderRepo) Verify(ctx context.Context) (*repository.LoadMetrics, error) {
	const grossQuery = `
	SELECT COALESCE(SUM(oi.qty * oi.unit_price), 0) AS gross_sales,
	       COUNT(DISTINCT o.order_id)               AS total_orders
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.order_id
	WHERE o.status = 'paid'`
	const discountQuery = `
	SELECT COALESCE(SUM(discount_amount), 0) FROM orders WHERE status = 'paid'`

	m := &repository.LoadMetrics{}
	if err := l.pool.QueryRow(ctx, grossQuery).Scan(&m.GrossSales, &m.TotalOrders); err != nil {
		return nil, fmt.Errorf("loader.Verify ventas: %w", err)
	}
	if err := l.pool.QueryRow(ctx, discountQuery).Scan(&m.TotalDiscounts); err != nil {
		return nil, fmt.Errorf("loader.Verify descuentos: %w", err)
	}
	return m, nil
}
