package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea de venta en la solicitud.
type SaleItemRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity int64           `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// CreateSaleRequest entrada para crear una venta.
// El total viene del llamador y se persiste tal cual (no hay re-liquidación en servidor).
type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id"`
	SaleDate      *time.Time        `json:"sale_date"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash credit debit"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateSaleRequest entrada para actualizar una venta. Campos de cabecera nil
// se dejan como están; Items nil conserva las líneas actuales, Items presente
// reemplaza el conjunto completo (el motor reconcilia contra el anterior).
type UpdateSaleRequest struct {
	CustomerID    *string           `json:"customer_id"`
	SaleDate      *time.Time        `json:"sale_date"`
	TotalAmount   *decimal.Decimal  `json:"total_amount"`
	PaymentMethod *string           `json:"payment_method"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemResponse una línea de venta en la respuesta.
type SaleItemResponse struct {
	ItemID   string          `json:"item_id"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	SaleDate      time.Time          `json:"sale_date"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// SaleListRequest filtros de listado de ventas.
type SaleListRequest struct {
	PageRequest
	CustomerID    string     `query:"customer_id"`
	PaymentMethod string     `query:"payment_method"`
	From          *time.Time `query:"from"`
	To            *time.Time `query:"to"`
}

// SaleListResponse lista paginada de cabeceras de venta.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
