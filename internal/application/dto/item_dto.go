package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem del catálogo.
type CreateItemRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	PackagingUnit string          `json:"packaging_unit"`
	Stock         int64           `json:"stock" validate:"min=0"`
	PriceLevels   json.RawMessage `json:"price_levels"`
	Status        string          `json:"status"`
}

// UpdateItemRequest entrada para actualizar un ítem. No permite modificar
// Stock directamente: eso se hace vía AdjustStock o ventas/compras.
type UpdateItemRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	PackagingUnit *string          `json:"packaging_unit"`
	PriceLevels   json.RawMessage  `json:"price_levels"`
	Status        *string          `json:"status"`
}

// AdjustStockRequest entrada para un ajuste manual de stock (delta con signo).
type AdjustStockRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	PackagingUnit string          `json:"packaging_unit"`
	Stock         int64           `json:"stock"`
	PriceLevels   json.RawMessage `json:"price_levels,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
