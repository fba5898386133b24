package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un ítem del catálogo.
const (
	ItemStatusActive       = "active"
	ItemStatusDiscontinued = "discontinued"
)

// Item representa un producto del catálogo con su contador de stock.
// Stock nunca baja de cero: toda mutación pasa por ItemRepository.AdjustStock,
// nunca por un read-modify-write del llamador.
type Item struct {
	ID            string
	SKU           string // código único de negocio
	Name          string
	Description   string
	Category      string
	CostPrice     decimal.Decimal
	PackagingUnit string
	Stock         int64
	PriceLevels   json.RawMessage // precios por nivel (mayorista, detal, ...)
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
