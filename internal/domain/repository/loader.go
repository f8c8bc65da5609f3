package repository

import (
	"context"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Dataset contenido completo de los seis flat files, parseado y deduplicado.
// La carga es de un solo escritor y asume que no hay lectores concurrentes.
type Dataset struct {
	Customers []entity.Customer
	Stores    []entity.Store
	Products  []entity.Product
	Orders    []entity.Order
	Items     []entity.OrderItem
	Returns   []entity.Return
}

// TableCount registros insertados por tabla.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// LoadMetrics métricas de sanidad calculadas tras la carga, para validar que
// los datos insertados son coherentes con el negocio.
type LoadMetrics struct {
	GrossSales     decimal.Decimal `json:"gross_sales"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	TotalOrders    int64           `json:"total_orders"`
}

// TableStatus estado de una tabla para el probe de administración. Si la
// tabla no existe, Err trae la descripción en lugar de fallar todo el probe.
type TableStatus struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	Err   string `json:"error,omitempty"`
}

// BulkLoader carga masiva del dataset. Las implementaciones recrean el schema
// desde cero (drop + create, en orden inverso de FKs) antes de insertar.
type BulkLoader interface {
	// InitSchema elimina y vuelve a crear las seis tablas.
	InitSchema(ctx context.Context) error

	// Load inserta el dataset completo respetando el orden de FKs
	// (customers, stores, products, orders, order_items, returns) y ajusta
	// las secuencias de IDs donde el motor las tenga.
	Load(ctx context.Context, ds *Dataset) ([]TableCount, error)

	// Verify calcula las métricas de sanidad post-carga sobre órdenes pagadas.
	Verify(ctx context.Context) (*LoadMetrics, error)
}

// StatusRepository probe de estado de la base de datos.
type StatusRepository interface {
	// TableCounts cuenta filas por tabla; una tabla inexistente se reporta en
	// TableStatus.Err sin abortar el resto.
	TableCounts(ctx context.Context) ([]TableStatus, error)
}
