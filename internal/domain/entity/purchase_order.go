package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderOrdered   = "ordered"
	PurchaseOrderReceived  = "received"
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrder representa una orden de compra a un proveedor.
// Al recibirse, la cantidad entra al stock del ítem en la misma transacción
// que cambia el estado a received.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	ItemID     string
	Quantity   int64
	Cost       decimal.Decimal
	OrderDate  time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
