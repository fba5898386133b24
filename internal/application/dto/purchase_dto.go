package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID string          `json:"supplier_id" validate:"required"`
	ItemID     string          `json:"item_id" validate:"required"`
	Quantity   int64           `json:"quantity" validate:"required,min=1"`
	Cost       decimal.Decimal `json:"cost"`
	OrderDate  *time.Time      `json:"order_date"`
}

// UpdatePurchaseOrderRequest entrada para actualizar una orden pendiente.
type UpdatePurchaseOrderRequest struct {
	Quantity  *int64           `json:"quantity" validate:"omitempty,min=1"`
	Cost      *decimal.Decimal `json:"cost"`
	OrderDate *time.Time       `json:"order_date"`
	Status    *string          `json:"status" validate:"omitempty,oneof=pending ordered"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	ItemID     string          `json:"item_id"`
	Quantity   int64           `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`
	OrderDate  time.Time       `json:"order_date"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
