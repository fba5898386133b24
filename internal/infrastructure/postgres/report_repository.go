package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de ventas e inventario.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// SalesSummary agrega ventas del período [from, to]: conteo, unidades,
// ingresos y COGS en una pasada, más desgloses por método de pago y top de
// ítems. COGS usa el cost_price vigente del ítem, no el histórico.
// COALESCE devuelve ceros en un período sin ventas.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummaryResult, error) {
	const totalsQuery = `
	SELECT
	    COUNT(DISTINCT s.id)                        AS sale_count,
	    COALESCE(SUM(si.quantity),               0) AS units_sold,
	    COALESCE(SUM(si.quantity * si.price),    0) AS revenue,
	    COALESCE(SUM(si.quantity * i.cost_price), 0) AS cogs
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	JOIN items      i  ON i.id       = si.item_id
	WHERE s.sale_date BETWEEN $1 AND $2`

	var out repository.SalesSummaryResult
	err := r.pool.QueryRow(ctx, totalsQuery, from, to).
		Scan(&out.SaleCount, &out.UnitsSold, &out.Revenue, &out.COGS)
	if err != nil {
		return nil, fmt.Errorf("report.SalesSummary: %w", err)
	}

	const byPaymentQuery = `
	SELECT
	    s.payment_method,
	    COUNT(DISTINCT s.id)                     AS sale_count,
	    COALESCE(SUM(si.quantity * si.price), 0) AS revenue
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	WHERE s.sale_date BETWEEN $1 AND $2
	GROUP BY s.payment_method
	ORDER BY revenue DESC`

	rows, err := r.pool.Query(ctx, byPaymentQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.SalesSummary by payment: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p repository.PaymentBreakdownResult
		if err := rows.Scan(&p.PaymentMethod, &p.SaleCount, &p.Revenue); err != nil {
			return nil, fmt.Errorf("report.SalesSummary by payment scan: %w", err)
		}
		out.ByPayment = append(out.ByPayment, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const topItemsQuery = `
	SELECT
	    i.id,
	    i.sku,
	    i.name,
	    SUM(si.quantity)            AS units_sold,
	    SUM(si.quantity * si.price) AS revenue
	FROM sale_items si
	JOIN sales s ON s.id = si.sale_id
	JOIN items i ON i.id = si.item_id
	WHERE s.sale_date BETWEEN $1 AND $2
	GROUP BY i.id, i.sku, i.name
	ORDER BY revenue DESC
	LIMIT 10`

	topRows, err := r.pool.Query(ctx, topItemsQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.SalesSummary top items: %w", err)
	}
	defer topRows.Close()
	for topRows.Next() {
		var t repository.TopItemResult
		if err := topRows.Scan(&t.ItemID, &t.SKU, &t.Name, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("report.SalesSummary top items scan: %w", err)
		}
		out.TopItems = append(out.TopItems, t)
	}
	return &out, topRows.Err()
}

// InventorySummary agrega el estado del catálogo: conteo de ítems activos,
// unidades totales y valorización (stock × cost_price), más los ítems activos
// con stock en o bajo el umbral.
func (r *ReportRepo) InventorySummary(ctx context.Context, lowStockThreshold int64) (*repository.InventorySummaryResult, error) {
	const totalsQuery = `
	SELECT
	    COUNT(*)                                 AS item_count,
	    COALESCE(SUM(stock),                  0) AS total_units,
	    COALESCE(SUM(stock * cost_price),     0) AS stock_valuation
	FROM items
	WHERE status = $1`

	var out repository.InventorySummaryResult
	err := r.pool.QueryRow(ctx, totalsQuery, entity.ItemStatusActive).
		Scan(&out.ItemCount, &out.TotalUnits, &out.StockValuation)
	if err != nil {
		return nil, fmt.Errorf("report.InventorySummary: %w", err)
	}

	const lowStockQuery = `
	SELECT id, sku, name, stock
	FROM items
	WHERE status = $1 AND stock <= $2
	ORDER BY stock ASC, name ASC`

	rows, err := r.pool.Query(ctx, lowStockQuery, entity.ItemStatusActive, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("report.InventorySummary low stock: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it repository.LowStockItemResult
		if err := rows.Scan(&it.ItemID, &it.SKU, &it.Name, &it.Stock); err != nil {
			return nil, fmt.Errorf("report.InventorySummary low stock scan: %w", err)
		}
		out.LowStock = append(out.LowStock, it)
	}
	return &out, rows.Err()
}
