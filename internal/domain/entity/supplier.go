package entity

import "time"

// Supplier representa un proveedor del negocio.
type Supplier struct {
	ID            string
	CompanyName   string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	PaymentTerms  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
