package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// ReportQuery filtros opcionales comunes a todos los reportes.
// Todos los valores se pasan a la capa de datos como parámetros ligados.
type ReportQuery struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD, cota inferior inclusiva sobre order_date
	EndDate   string `query:"end_date"`   // YYYY-MM-DD, cota superior inclusiva
	City      string `query:"city"`       // igualdad exacta sobre stores.city
	Channel   string `query:"channel"`    // igualdad exacta sobre customers.channel
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// KPIsDTO resumen ejecutivo. Montos redondeados a 2 decimales en el borde;
// MTD es el último mes con datos (orden por tupla año-mes), no el mes
// calendario actual.
type KPIsDTO struct {
	NetSalesMTD    decimal.Decimal `json:"net_sales_mtd"`
	NetSalesYTD    decimal.Decimal `json:"net_sales_ytd"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	GrossMarginPct decimal.Decimal `json:"gross_margin_pct"`
	TotalOrders    int64           `json:"total_orders"`
	TotalUnits     int64           `json:"total_units"`
	AOV            decimal.Decimal `json:"aov"`
	ReturnRate     decimal.Decimal `json:"return_rate"`
	TotalReturns   decimal.Decimal `json:"total_returns"`
}

// MonthlyTrendDTO fila de la tendencia mensual. PctChange compara contra el
// mes presente anterior en la secuencia (0 en la primera fila y cuando el mes
// anterior tuvo neto ≤ 0).
type MonthlyTrendDTO struct {
	Month      string          `json:"month"` // YYYY-MM
	GrossSales decimal.Decimal `json:"gross_sales"`
	Discounts  decimal.Decimal `json:"discounts"`
	Returns    decimal.Decimal `json:"returns"`
	NetSales   decimal.Decimal `json:"net_sales"`
	PctChange  decimal.Decimal `json:"pct_change"`
}

// CitySalesDTO ventas netas por ciudad (descuento de la orden restado una vez).
type CitySalesDTO struct {
	City     string          `json:"city"`
	NetSales decimal.Decimal `json:"net_sales"`
}

// ChannelSalesDTO ventas por canal. El campo se llama net_sales por
// compatibilidad con el dashboard, pero el valor es bruto: este reporte no
// resta descuentos.
type ChannelSalesDTO struct {
	Channel  string          `json:"channel"`
	NetSales decimal.Decimal `json:"net_sales"`
	Orders   int64           `json:"orders"`
}

// CategorySalesDTO ventas por categoría con participación sobre el total del
// resultado filtrado (las PctMix del set devuelto suman 100).
type CategorySalesDTO struct {
	Category string          `json:"category"`
	NetSales decimal.Decimal `json:"net_sales"`
	PctMix   decimal.Decimal `json:"pct_mix"`
}

// TopProductDTO grupo (categoría, marca) del top por margen bruto.
type TopProductDTO struct {
	ProductName    string          `json:"product_name"` // "categoría - marca"
	Revenue        decimal.Decimal `json:"revenue"`
	COGS           decimal.Decimal `json:"cogs"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	GrossMarginPct decimal.Decimal `json:"gross_margin_pct"`
}

// NewVsReturningDTO clientes nuevos vs recurrentes de un mes.
type NewVsReturningDTO struct {
	Month              string `json:"month"`
	NewCustomers       int64  `json:"new_customers"`
	ReturningCustomers int64  `json:"returning_customers"`
}

// FiltersDTO valores disponibles para los selectores del dashboard.
type FiltersDTO struct {
	Cities       []string `json:"cities"`
	Channels     []string `json:"channels"`
	Categories   []string `json:"categories"`
	Months       []string `json:"months"`         // YYYY-MM
	MinOrderDate string   `json:"min_order_date"` // YYYY-MM-DD, vacío sin datos
	MaxOrderDate string   `json:"max_order_date"`
}
