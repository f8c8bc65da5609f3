package mysql

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// batchSize filas por INSERT multi-fila.
const batchSize = 500

var _ repository.BulkLoader = (*BulkLoaderRepo)(nil)

// BulkLoaderRepo carga masiva sobre MySQL vía INSERTs multi-fila por lotes.
// Un solo escritor; no es segura frente a lectores concurrentes.
type BulkLoaderRepo struct {
	db *sqlx.DB
}

// NewBulkLoader construye el cargador.
func NewBulkLoader(db *sqlx.DB) *BulkLoaderRepo {
	return &BulkLoaderRepo{db: db}
}

// InitSchema elimina y recrea las seis tablas, sentencia a sentencia.
func (l *BulkLoaderRepo) InitSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("loader.InitSchema: %w", err)
		}
	}
	return nil
}

// Load inserta el dataset completo en orden de FKs. MySQL ajusta solo el
// AUTO_INCREMENT al insertar IDs explícitos, no hace falta reseteo de
// secuencias.
func (l *BulkLoaderRepo) Load(ctx context.Context, ds *repository.Dataset) ([]repository.TableCount, error) {
	var counts []repository.TableCount

	insert := func(table string, columns []string, length int, row func(i int) []any) error {
		inserted, err := l.batchInsert(ctx, table, columns, length, row)
		if err != nil {
			return fmt.Errorf("loader.Load %s: %w", table, err)
		}
		counts = append(counts, repository.TableCount{Table: table, Rows: inserted})
		return nil
	}

	if err := insert("customers",
		[]string{"customer_id", "created_at", "country", "channel"},
		len(ds.Customers), func(i int) []any {
			c := ds.Customers[i]
			return []any{c.ID, c.CreatedAt, c.Country, c.Channel}
		}); err != nil {
		return nil, err
	}

	if err := insert("stores",
		[]string{"store_id", "store_name", "city"},
		len(ds.Stores), func(i int) []any {
			s := ds.Stores[i]
			return []any{s.ID, s.Name, s.City}
		}); err != nil {
		return nil, err
	}

	if err := insert("products",
		[]string{"product_id", "category", "brand"},
		len(ds.Products), func(i int) []any {
			p := ds.Products[i]
			return []any{p.ID, p.Category, p.Brand}
		}); err != nil {
		return nil, err
	}

	if err := insert("orders",
		[]string{"order_id", "customer_id", "store_id", "order_date", "status", "total_amount", "discount_amount", "shipping_amount"},
		len(ds.Orders), func(i int) []any {
			o := ds.Orders[i]
			return []any{o.ID, o.CustomerID, o.StoreID, o.OrderDate, o.Status, o.TotalAmount, o.DiscountAmount, o.ShippingAmount}
		}); err != nil {
		return nil, err
	}

	if err := insert("order_items",
		[]string{"order_item_id", "order_id", "product_id", "qty", "unit_price", "unit_cost"},
		len(ds.Items), func(i int) []any {
			it := ds.Items[i]
			return []any{it.ID, it.OrderID, it.ProductID, it.Qty, it.UnitPrice, it.UnitCost}
		}); err != nil {
		return nil, err
	}

	if err := insert("returns",
		[]string{"return_id", "order_id", "return_date", "amount_returned", "reason"},
		len(ds.Returns), func(i int) []any {
			rt := ds.Returns[i]
			return []any{rt.ID, rt.OrderID, rt.ReturnDate, rt.AmountReturned, rt.Reason}
		}); err != nil {
		return nil, err
	}

	return counts, nil
}

// batchInsert inserta en lotes de batchSize con un INSERT multi-fila por lote.
func (l *BulkLoaderRepo) batchInsert(
	ctx context.Context,
	table string,
	columns []string,
	length int,
	row func(i int) []any,
) (int64, error) {
	if length == 0 {
		return 0, nil
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	var inserted int64
	for start := 0; start < length; start += batchSize {
		end := start + batchSize
		if end > length {
			end = length
		}

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*len(columns))
		for i := start; i < end; i++ {
			values = append(values, placeholder)
			args = append(args, row(i)...)
		}

		res, err := l.db.ExecContext(ctx, prefix+strings.Join(values, ", "), args...)
		if err != nil {
			return inserted, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// Verify métricas de sanidad post-carga sobre órdenes pagadas.
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
	if err := l.db.QueryRowContext(ctx, grossQuery).Scan(&m.GrossSales, &m.TotalOrders); err != nil {
		return nil, fmt.Errorf("loader.Verify ventas: %w", err)
	}
	if err := l.db.QueryRowContext(ctx, discountQuery).Scan(&m.TotalDiscounts); err != nil {
		return nil, fmt.Errorf("loader.Verify descuentos: %w", err)
	}
	return m, nil
}
