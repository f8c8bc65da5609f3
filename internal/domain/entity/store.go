package entity

// Store tienda física donde se origina una orden.
type Store struct {
	ID   int64
	Name string
	City string
}
