package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter filtros opcionales de todos los reportes. Los campos nil no
// imponen restricción; los presentes se combinan con AND. Las fechas acotan
// o.order_date de forma inclusiva. Los adaptadores SIEMPRE pasan los valores
// como parámetros ligados, nunca concatenados al SQL.
type ReportFilter struct {
	StartDate *time.Time // cota inferior inclusiva sobre order_date
	EndDate   *time.Time // cota superior inclusiva
	City      *string    // igualdad exacta sobre stores.city
	Channel   *string    // igualdad exacta sobre customers.channel
}

// ── Filas crudas de las consultas ─────────────────────────────────────────────

// MonthlyKPIRow agregado mensual base de los KPIs. NetSales ya trae el
// descuento prorrateado por participación de qty dentro de cada orden
// (órdenes con qty total cero aportan descuento cero).
type MonthlyKPIRow struct {
	Month      string          // YYYY-MM
	GrossSales decimal.Decimal // Σ qty × unit_price, sin ajustar
	NetSales   decimal.Decimal // Σ (bruto − descuento prorrateado)
	COGS       decimal.Decimal // Σ qty × unit_cost
	Units      int64           // Σ qty
	Orders     int64           // órdenes distintas del mes
}

// TrendRow fila cruda de la tendencia mensual. Los descuentos y devoluciones
// se agregan una sola vez por orden (sin fan-out por línea).
type TrendRow struct {
	Month      string
	GrossSales decimal.Decimal
	Discounts  decimal.Decimal
	Returns    decimal.Decimal
}

// CitySalesRow ventas netas por ciudad: Σ líneas − descuento completo de la
// orden (sustracción única, no prorrateada).
type CitySalesRow struct {
	City     string
	NetSales decimal.Decimal
}

// ChannelSalesRow ventas por canal del cliente. GrossSales es bruto: este
// reporte no resta descuentos (asimetría del modelo de negocio, se preserva).
type ChannelSalesRow struct {
	Channel    string // canal o "unknown" si el cliente no tiene
	GrossSales decimal.Decimal
	Orders     int64
}

// CategorySalesRow ventas brutas por categoría de producto.
type CategorySalesRow struct {
	Category   string
	GrossSales decimal.Decimal
}

// ProductMarginRow agregado por (categoría, marca) para el top de productos.
type ProductMarginRow struct {
	Category string
	Brand    string
	Revenue  decimal.Decimal
	COGS     decimal.Decimal
}

// CohortRow clientes nuevos vs recurrentes de un mes. El mes de cohorte de un
// cliente se calcula sobre TODAS sus órdenes pagadas, sin filtros.
type CohortRow struct {
	Month              string
	NewCustomers       int64
	ReturningCustomers int64
}

// FilterOptions valores disponibles para poblar los filtros del dashboard.
type FilterOptions struct {
	Cities       []string
	Channels     []string // solo canales no nulos
	Categories   []string
	Months       []string // YYYY-MM con al menos una orden pagada
	MinOrderDate *time.Time
	MaxOrderDate *time.Time
}

// ReportingRepository consultas de solo lectura del dashboard BI.
// Las implementaciones no modifican datos y liberan la conexión en todo camino
// de salida (pool por debajo). Cada método ejecuta una consulta parametrizada.
type ReportingRepository interface {
	// MonthlyKPIs devuelve el rollup mensual ordenado ascendente por mes.
	MonthlyKPIs(ctx context.Context, f ReportFilter) ([]MonthlyKPIRow, error)

	// TotalReturns suma amount_returned de devoluciones cuya orden padre
	// cumple el filtro (join orders→stores→customers, estado paid).
	TotalReturns(ctx context.Context, f ReportFilter) (decimal.Decimal, error)

	// MonthlyTrend devuelve bruto, descuentos y devoluciones por mes,
	// ordenado ascendente.
	MonthlyTrend(ctx context.Context, f ReportFilter) ([]TrendRow, error)

	// SalesByCity ventas netas por ciudad, descendente por neto. El caller
	// anula el filtro de ciudad antes de llamar (el reporte ES el desglose).
	SalesByCity(ctx context.Context, f ReportFilter) ([]CitySalesRow, error)

	// SalesByChannel ventas brutas y órdenes distintas por canal, descendente
	// por bruto. El caller anula el filtro de canal.
	SalesByChannel(ctx context.Context, f ReportFilter) ([]ChannelSalesRow, error)

	// SalesByCategory ventas brutas por categoría, descendente.
	SalesByCategory(ctx context.Context, f ReportFilter) ([]CategorySalesRow, error)

	// TopProducts grupos (categoría, marca) con mayor margen bruto,
	// descendente, a lo sumo limit filas.
	TopProducts(ctx context.Context, f ReportFilter, limit int) ([]ProductMarginRow, error)

	// NewVsReturning clientes nuevos vs recurrentes por mes de la ventana
	// filtrada, ascendente por mes.
	NewVsReturning(ctx context.Context, f ReportFilter) ([]CohortRow, error)

	// FilterOptions valores distintos para los selectores del dashboard.
	FilterOptions(ctx context.Context) (*FilterOptions, error)
}
