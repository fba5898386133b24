package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// ReportCache cache de reportes ya serializados. Get devuelve (nil, nil) en
// cache miss. Una implementación nil-safe que nunca acierta sirve para correr
// sin Redis.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReportUseCase reportes de ventas e inventario. Los reportes son vistas
// derivadas con cache por TTL corto: toleran quedar unos segundos detrás de la
// última venta a cambio de no recalcular agregados en cada consulta.
type ReportUseCase struct {
	repo  repository.ReportRepository
	cache ReportCache
	ttl   time.Duration
	log   *logger.Logger
}

func NewReportUseCase(repo repository.ReportRepository, cache ReportCache, ttl time.Duration, log *logger.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, cache: cache, ttl: ttl, log: log}
}

// SalesReport métricas del período [from, to]. Revenue, COGS y Profit salen
// de la misma pasada sobre las líneas de venta.
func (uc *ReportUseCase) SalesReport(ctx context.Context, in dto.SalesReportRequest) (*dto.SalesReportResponse, error) {
	if in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return nil, domain.ErrInvalidInput
	}

	key := fmt.Sprintf("report:sales:%d:%d", in.From.Unix(), in.To.Unix())
	var cached dto.SalesReportResponse
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	summary, err := uc.repo.SalesSummary(ctx, in.From, in.To)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		From:      in.From,
		To:        in.To,
		SaleCount: summary.SaleCount,
		UnitsSold: summary.UnitsSold,
		Revenue:   summary.Revenue,
		COGS:      summary.COGS,
		Profit:    summary.Revenue.Sub(summary.COGS),
		ByPayment: make([]dto.PaymentBreakdownDTO, 0, len(summary.ByPayment)),
		TopItems:  make([]dto.TopItemDTO, 0, len(summary.TopItems)),
	}
	for _, p := range summary.ByPayment {
		resp.ByPayment = append(resp.ByPayment, dto.PaymentBreakdownDTO{
			PaymentMethod: p.PaymentMethod,
			SaleCount:     p.SaleCount,
			Revenue:       p.Revenue,
		})
	}
	for _, t := range summary.TopItems {
		resp.TopItems = append(resp.TopItems, dto.TopItemDTO{
			ItemID:    t.ItemID,
			SKU:       t.SKU,
			Name:      t.Name,
			UnitsSold: t.UnitsSold,
			Revenue:   t.Revenue,
		})
	}

	uc.toCache(ctx, key, resp)
	return resp, nil
}

// InventoryReport estado agregado del inventario con ítems bajo el umbral.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, lowStockThreshold int64) (*dto.InventoryReportResponse, error) {
	if lowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}

	key := fmt.Sprintf("report:inventory:%d", lowStockThreshold)
	var cached dto.InventoryReportResponse
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	summary, err := uc.repo.InventorySummary(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventoryReportResponse{
		ItemCount:      summary.ItemCount,
		TotalUnits:     summary.TotalUnits,
		StockValuation: summary.StockValuation,
		LowStock:       make([]dto.LowStockItemDTO, 0, len(summary.LowStock)),
	}
	for _, it := range summary.LowStock {
		resp.LowStock = append(resp.LowStock, dto.LowStockItemDTO{
			ItemID: it.ItemID,
			SKU:    it.SKU,
			Name:   it.Name,
			Stock:  it.Stock,
		})
	}

	uc.toCache(ctx, key, resp)
	return resp, nil
}

// fromCache intenta leer y decodificar un reporte cacheado. Los fallos del
// cache degradan a recalcular, nunca a error.
func (uc *ReportUseCase) fromCache(ctx context.Context, key string, out any) bool {
	if uc.cache == nil {
		return false
	}
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("Fallo leyendo cache de reportes")
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("Entrada de cache de reportes corrupta")
		return false
	}
	return true
}

func (uc *ReportUseCase) toCache(ctx context.Context, key string, v any) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("Fallo escribiendo cache de reportes")
	}
}
