package entity

// Product producto del catálogo. El reporte de top productos agrupa por
// (Category, Brand); no hay precio a nivel de producto, el precio y el costo
// viven en cada línea de orden.
type Product struct {
	ID       int64
	Category string
	Brand    string
}
