package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo consultas de solo lectura del dashboard BI sobre PostgreSQL.
type ReportingRepo struct {
	pool *pgxpool.Pool
}

// NewReportingRepository construye el adaptador de reportes.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepo {
	return &ReportingRepo{pool: pool}
}

// MonthlyKPIs rollup mensual base de los KPIs.
// El descuento de cada orden se prorratea a sus líneas por participación de
// qty (window sobre la orden); si la orden tiene qty total cero aporta cero.
func (r *ReportingRepo) MonthlyKPIs(ctx context.Context, f repository.ReportFilter) ([]repository.MonthlyKPIRow, error) {
	var args []any
	query := fmt.Sprintf(`
	WITH lines AS (
	    SELECT
	        o.order_id,
	        to_char(o.order_date, 'YYYY-MM')   AS month,
	        oi.qty,
	        oi.qty * oi.unit_price             AS gross,
	        oi.qty * oi.unit_cost              AS cogs,
	        CASE
	            WHEN SUM(oi.qty) OVER (PARTITION BY o.order_id) > 0
	            THEN o.discount_amount * oi.qty / SUM(oi.qty) OVER (PARTITION BY o.order_id)
	            ELSE 0
	        END                                AS item_discount
	    FROM orders o
	    JOIN order_items oi ON oi.order_id    = o.order_id
	    JOIN stores s       ON s.store_id     = o.store_id
	    JOIN customers c    ON c.customer_id  = o.customer_id
	    WHERE %s
	)
	SELECT
	    month,
	    SUM(gross)                         AS gross_sales,
	    SUM(gross - item_discount)         AS net_sales,
	    SUM(cogs)                          AS cogs,
	    SUM(qty)                           AS units,
	    COUNT(DISTINCT order_id)           AS orders
	FROM lines
	GROUP BY month
	ORDER BY month`, whereFilter(f, &args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.MonthlyKPIs: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyKPIRow
	for rows.Next() {
		var row repository.MonthlyKPIRow
		if err := rows.Scan(
			&row.Month,
			&row.GrossSales,
			&row.NetSales,
			&row.COGS,
			&row.Units,
			&row.Orders,
		); err != nil {
			return nil, fmt.Errorf("reporting.MonthlyKPIs scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TotalReturns suma devoluciones cuya orden padre cumple el filtro.
// COALESCE devuelve cero cuando no hay devoluciones en la ventana.
func (r *ReportingRepo) TotalReturns(ctx context.Context, f repository.ReportFilter) (decimal.Decimal, error) {
	var args []any
	query := fmt.Sprintf(`
	SELECT COALESCE(SUM(rt.amount_returned), 0) AS total_returns
	FROM returns rt
	JOIN orders o      ON o.order_id     = rt.order_id
	JOIN stores s      ON s.store_id     = o.store_id
	JOIN customers c   ON c.customer_id  = o.customer_id
	WHERE %s`, whereFilter(f, &args))

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("reporting.TotalReturns: %w", err)
	}
	return total, nil
}

// MonthlyTrend bruto, descuentos y devoluciones por mes. Descuentos y
// devoluciones se agregan por orden en CTEs separados para no multiplicarlos
// por el número de líneas de la orden.
func (r *ReportingRepo) MonthlyTrend(ctx context.Context, f repository.ReportFilter) ([]repository.TrendRow, error) {
	var args []any
	salesWhere := whereFilter(f, &args)
	discountWhere := whereFilter(f, &args)
	returnsWhere := whereFilter(f, &args)
	query := fmt.Sprintf(`
	WITH sales AS (
	    SELECT to_char(o.order_date, 'YYYY-MM') AS month,
	           SUM(oi.qty * oi.unit_price)      AS gross_sales
	    FROM orders o
	    JOIN order_items oi ON oi.order_id   = o.order_id
	    JOIN stores s       ON s.store_id    = o.store_id
	    JOIN customers c    ON c.customer_id = o.customer_id
	    WHERE %s
	    GROUP BY 1
	), order_discounts AS (
	    SELECT to_char(o.order_date, 'YYYY-MM') AS month,
	           SUM(o.discount_amount)           AS discounts
	    FROM orders o
	    JOIN stores s       ON s.store_id    = o.store_id
	    JOIN customers c    ON c.customer_id = o.customer_id
	    WHERE %s
	    GROUP BY 1
	), refunds AS (
	    SELECT to_char(o.order_date, 'YYYY-MM') AS month,
	           SUM(rt.amount_returned)          AS returns
	    FROM returns rt
	    JOIN orders o       ON o.order_id    = rt.order_id
	    JOIN stores s       ON s.store_id    = o.store_id
	    JOIN customers c    ON c.customer_id = o.customer_id
	    WHERE %s
	    GROUP BY 1
	)
	SELECT s.month,
	       s.gross_sales,
	       COALESCE(d.discounts, 0) AS discounts,
	       COALESCE(r.returns, 0)   AS returns
	FROM sales s
	LEFT JOIN order_discounts d ON d.month = s.month
	LEFT JOIN refunds r         ON r.month = s.month
	ORDER BY s.month`, salesWhere, discountWhere, returnsWhere)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.MonthlyTrend: %w", err)
	}
	defer rows.Close()

	var results []repository.TrendRow
	for rows.Next() {
		var row repository.TrendRow
		if err := rows.Scan(&row.Month, &row.GrossSales, &row.Discounts, &row.Returns); err != nil {
			return nil, fmt.Errorf("reporting.MonthlyTrend scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesByCity ventas netas por ciudad: Σ líneas de la orden menos su
// discount_amount completo (una sola vez por orden), descendente por neto.
// Desempate por ciudad para orden determinista.
func (r *ReportingRepo) SalesByCity(ctx context.Context, f repository.ReportFilter) ([]repository.CitySalesRow, error) {
	var args []any
	query := fmt.Sprintf(`
	WITH order_net AS (
	    SELECT o.order_id,
	           o.store_id,
	           SUM(oi.qty * oi.unit_price) - o.discount_amount AS net_sales
	    FROM orders o
	    JOIN order_items oi ON oi.order_id   = o.order_id
	    JOIN stores s       ON s.store_id    = o.store_id
	    JOIN customers c    ON c.customer_id = o.customer_id
	    WHERE %s
	    GROUP BY o.order_id, o.store_id, o.discount_amount
	)
	SELECT s.city,
	       SUM(n.net_sales) AS net_sales
	FROM order_net n
	JOIN stores s ON s.store_id = n.store_id
	GROUP BY s.city
	ORDER BY net_sales DESC, s.city ASC`, whereFilter(f, &args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.SalesByCity: %w", err)
	}
	defer rows.Close()

	var results []repository.CitySalesRow
	for rows.Next() {
		var row repository.CitySalesRow
		if err := rows.Scan(&row.City, &row.NetSales); err != nil {
			return nil, fmt.Errorf("reporting.SalesByCity scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesByChannel ventas brutas y órdenes distintas por canal del cliente.
// Este reporte NO resta descuentos. Los clientes sin canal se agrupan bajo
// "unknown".
func (r *ReportingRepo) SalesByChannel(ctx context.Context, f repository.ReportFilter) ([]repository.ChannelSalesRow, error) {
	var args []any
	query := fmt.Sprintf(`
	SELECT COALESCE(c.channel, 'unknown') AS channel,
	       SUM(oi.qty * oi.unit_price)    AS gross_sales,
	       COUNT(DISTINCT o.order_id)     AS orders
	FROM orders o
	JOIN order_items oi ON oi.order_id   = o.order_id
	JOIN stores s       ON s.store_id    = o.store_id
	JOIN customers c    ON c.customer_id = o.customer_id
	WHERE %s
	GROUP BY COALESCE(c.channel, 'unknown')
	ORDER BY gross_sales DESC, channel ASC`, whereFilter(f, &args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.SalesByChannel: %w", err)
	}
	defer rows.Close()

	var results []repository.ChannelSalesRow
	for rows.Next() {
		var row repository.ChannelSalesRow
		if err := rows.Scan(&row.Channel, &row.GrossSales, &row.Orders); err != nil {
			return nil, fmt.Errorf("reporting.SalesByChannel scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesByCategory ventas brutas por categoría, descendente.
func (r *ReportingRepo) SalesByCategory(ctx context.Context, f repository.ReportFilter) ([]repository.CategorySalesRow, error) {
	var args []any
	query := fmt.Sprintf(`
	SELECT p.category,
	       SUM(oi.qty * oi.unit_price) AS gross_sales
	FROM orders o
	JOIN order_items oi ON oi.order_id   = o.order_id
	JOIN products p     ON p.product_id  = oi.product_id
	JOIN stores s       ON s.store_id    = o.store_id
	JOIN customers c    ON c.customer_id = o.customer_id
	WHERE %s
	GROUP BY p.category
	ORDER BY gross_sales DESC, p.category ASC`, whereFilter(f, &args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.SalesByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategorySalesRow
	for rows.Next() {
		var row repository.CategorySalesRow
		if err := rows.Scan(&row.Category, &row.GrossSales); err != nil {
			return nil, fmt.Errorf("reporting.SalesByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopProducts grupos (categoría, marca) ordenados por margen bruto
// descendente, a lo sumo limit filas.
func (r *ReportingRepo) TopProducts(ctx context.Context, f repository.ReportFilter, limit int) ([]repository.ProductMarginRow, error) {
	var args []any
	where := whereFilter(f, &args)
	args = append(args, limit)
	query := fmt.Sprintf(`
	SELECT p.category,
	       p.brand,
	       SUM(oi.qty * oi.unit_price) AS revenue,
	       SUM(oi.qty * oi.unit_cost)  AS cogs
	FROM orders o
	JOIN order_items oi ON oi.order_id   = o.order_id
	JOIN products p     ON p.product_id  = oi.product_id
	JOIN stores s       ON s.store_id    = o.store_id
	JOIN customers c    ON c.customer_id = o.customer_id
	WHERE %s
	GROUP BY p.category, p.brand
	ORDER BY SUM(oi.qty * oi.unit_price) - SUM(oi.qty * oi.unit_cost) DESC,
	         p.category ASC, p.brand ASC
	LIMIT $%d`, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.TopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductMarginRow
	for rows.Next() {
		var row repository.ProductMarginRow
		if err := rows.Scan(&row.Category, &row.Brand, &row.Revenue, &row.COGS); err != nil {
			return nil, fmt.Errorf("reporting.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// NewVsReturning clientes nuevos vs recurrentes por mes. El mes de cohorte se
// calcula en un CTE sin filtros sobre todas las órdenes pagadas; el filtro
// solo acota la ventana reportada.
func (r *ReportingRepo) NewVsReturning(ctx context.Context, f repository.ReportFilter) ([]repository.CohortRow, error) {
	var args []any
	query := fmt.Sprintf(`
	WITH cohorts AS (
	    SELECT o.customer_id,
	           MIN(to_char(o.order_date, 'YYYY-MM')) AS cohort_month
	    FROM orders o
	    WHERE o.status = 'paid'
	    GROUP BY o.customer_id
	)
	SELECT to_char(o.order_date, 'YYYY-MM') AS month,
	       COUNT(DISTINCT o.customer_id) FILTER (
	           WHERE to_char(o.order_date, 'YYYY-MM') = ch.cohort_month
	       ) AS new_customers,
	       COUNT(DISTINCT o.customer_id) FILTER (
	           WHERE to_char(o.order_date, 'YYYY-MM') <> ch.cohort_month
	       ) AS returning_customers
	FROM orders o
	JOIN cohorts ch     ON ch.customer_id = o.customer_id
	JOIN stores s       ON s.store_id     = o.store_id
	JOIN customers c    ON c.customer_id  = o.customer_id
	WHERE %s
	GROUP BY to_char(o.order_date, 'YYYY-MM')
	ORDER BY month`, whereFilter(f, &args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.NewVsReturning: %w", err)
	}
	defer rows.Close()

	var results []repository.CohortRow
	for rows.Next() {
		var row repository.CohortRow
		if err := rows.Scan(&row.Month, &row.NewCustomers, &row.ReturningCustomers); err != nil {
			return nil, fmt.Errorf("reporting.NewVsReturning scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// FilterOptions valores distintos para poblar los selectores del dashboard.
func (r *ReportingRepo) FilterOptions(ctx context.Context) (*repository.FilterOptions, error) {
	opts := &repository.FilterOptions{}

	lists := []struct {
		query string
		dst   *[]string
	}{
		{`SELECT DISTINCT city FROM stores ORDER BY city`, &opts.Cities},
		{`SELECT DISTINCT channel FROM customers WHERE channel IS NOT NULL ORDER BY channel`, &opts.Channels},
		{`SELECT DISTINCT category FROM products ORDER BY category`, &opts.Categories},
		{`SELECT DISTINCT to_char(order_date, 'YYYY-MM') AS month FROM orders WHERE status = 'paid' ORDER BY month`, &opts.Months},
	}
	for _, l := range lists {
		values, err := r.queryStrings(ctx, l.query)
		if err != nil {
			return nil, fmt.Errorf("reporting.FilterOptions: %w", err)
		}
		*l.dst = values
	}

	const rangeQuery = `SELECT MIN(order_date), MAX(order_date) FROM orders WHERE status = 'paid'`
	if err := r.pool.QueryRow(ctx, rangeQuery).Scan(&opts.MinOrderDate, &opts.MaxOrderDate); err != nil {
		return nil, fmt.Errorf("reporting.FilterOptions rango: %w", err)
	}

	return opts, nil
}

func (r *ReportingRepo) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
