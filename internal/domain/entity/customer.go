package entity

import "time"

// Customer representa un cliente registrado en el punto de venta.
type Customer struct {
	ID          string
	Name        string
	ContactInfo string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
