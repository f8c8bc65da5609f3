package entity

import "time"

// Customer cliente del retail. Channel es el canal de adquisición y puede ser
// NULL en los datos de origen.
type Customer struct {
	ID        int64
	CreatedAt time.Time
	Country   string
	Channel   *string
}
