package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPaid único estado que cuenta para cualquier métrica de ingreso.
const StatusPaid = "paid"

// Order cabecera de orden. DiscountAmount vive a nivel de orden y cada
// reporte decide cómo atribuirlo a las líneas.
type Order struct {
	ID             int64
	CustomerID     int64
	StoreID        int64
	OrderDate      time.Time
	Status         string
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
}
