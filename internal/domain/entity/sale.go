package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
	PaymentDebit  = "debit"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCredit || m == PaymentDebit
}

// Sale representa la cabecera de una venta y sus líneas.
// Se crea, modifica y anula únicamente a través del motor de ventas,
// que garantiza que los descuentos de stock acompañan cada mutación.
type Sale struct {
	ID            string
	CustomerID    *string // opcional: venta de mostrador sin cliente
	SaleDate      time.Time
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem es una línea de venta: ítem, cantidad y precio efectivamente cobrado
// (puede diferir del costPrice vigente del catálogo). No tiene ciclo de vida
// propio fuera de su venta.
type SaleItem struct {
	ID       string
	SaleID   string
	ItemID   string
	Quantity int64
	Price    decimal.Decimal
}

// TotalQuantity suma las cantidades de todas las líneas.
func (s *Sale) TotalQuantity() int64 {
	var total int64
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}
