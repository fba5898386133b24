package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult métricas agregadas de ventas en un período.
type SalesSummaryResult struct {
	SaleCount int64
	UnitsSold int64
	Revenue   decimal.Decimal
	COGS      decimal.Decimal
	ByPayment []PaymentBreakdownResult
	TopItems  []TopItemResult
}

// PaymentBreakdownResult ingresos por método de pago.
type PaymentBreakdownResult struct {
	PaymentMethod string
	SaleCount     int64
	Revenue       decimal.Decimal
}

// TopItemResult ítems con mayor ingreso del período.
type TopItemResult struct {
	ItemID    string
	SKU       string
	Name      string
	UnitsSold int64
	Revenue   decimal.Decimal
}

// InventorySummaryResult estado agregado del inventario.
type InventorySummaryResult struct {
	ItemCount      int64
	TotalUnits     int64
	StockValuation decimal.Decimal // sum(stock * cost_price)
	LowStock       []LowStockItemResult
}

// LowStockItemResult ítems activos con stock en o bajo el umbral.
type LowStockItemResult struct {
	ItemID string
	SKU    string
	Name   string
	Stock  int64
}

// ReportRepository consultas de solo lectura para reportes.
// No participa en transacciones: son vistas derivadas.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummaryResult, error)
	InventorySummary(ctx context.Context, lowStockThreshold int64) (*InventorySummaryResult, error)
}
