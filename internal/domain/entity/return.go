package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return devolución asociada a una orden. Reason puede venir vacío en origen.
type Return struct {
	ID             int64
	OrderID        int64
	ReturnDate     time.Time
	AmountReturned decimal.Decimal
	Reason         *string
}
