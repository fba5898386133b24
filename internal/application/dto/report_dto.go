package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportRequest rango de fechas para el reporte de ventas.
type SalesReportRequest struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

// PaymentBreakdownDTO ingresos por método de pago.
type PaymentBreakdownDTO struct {
	PaymentMethod string          `json:"payment_method"`
	SaleCount     int64           `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// TopItemDTO ítems con mayor ingreso en el período.
type TopItemDTO struct {
	ItemID    string          `json:"item_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesReportResponse reporte de ventas de un período.
// Revenue y COGS salen de la misma consulta agregada; los tipos de reporte
// profit y cogs se derivan de estos dos valores.
type SalesReportResponse struct {
	From      time.Time             `json:"from"`
	To        time.Time             `json:"to"`
	SaleCount int64                 `json:"sale_count"`
	UnitsSold int64                 `json:"units_sold"`
	Revenue   decimal.Decimal       `json:"revenue"`
	COGS      decimal.Decimal       `json:"cogs"`
	Profit    decimal.Decimal       `json:"profit"`
	ByPayment []PaymentBreakdownDTO `json:"by_payment"`
	TopItems  []TopItemDTO          `json:"top_items"`
}

// LowStockItemDTO ítem activo con stock en o bajo el umbral.
type LowStockItemDTO struct {
	ItemID string `json:"item_id"`
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Stock  int64  `json:"stock"`
}

// InventoryReportResponse estado agregado del inventario.
type InventoryReportResponse struct {
	ItemCount      int64             `json:"item_count"`
	TotalUnits     int64             `json:"total_units"`
	StockValuation decimal.Decimal   `json:"stock_valuation"`
	LowStock       []LowStockItemDTO `json:"low_stock"`
}
