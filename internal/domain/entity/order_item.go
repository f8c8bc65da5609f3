package entity

import "github.com/shopspring/decimal"

// OrderItem línea de orden. Qty × UnitPrice es la venta bruta de la línea;
// Qty × UnitCost su COGS.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Qty       int64
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}
