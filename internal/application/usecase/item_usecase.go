package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// ItemUseCase CRUD del catálogo más el ajuste manual de stock.
// Las mutaciones de stock por ventas o compras no pasan por aquí.
type ItemUseCase struct {
	repo  repository.ItemRepository
	audit sales.AuditRecorder
}

func NewItemUseCase(repo repository.ItemRepository, audit sales.AuditRecorder) *ItemUseCase {
	return &ItemUseCase{repo: repo, audit: audit}
}

// Create da de alta un ítem. El SKU debe ser único.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Stock < 0 || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.ItemStatusActive
	}
	if status != entity.ItemStatusActive && status != entity.ItemStatusDiscontinued {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		CostPrice:     in.CostPrice,
		PackagingUnit: in.PackagingUnit,
		Stock:         in.Stock,
		PriceLevels:   in.PriceLevels,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Create Item",
		fmt.Sprintf("ítem %s (%s) creado con stock %d", item.SKU, item.Name, item.Stock))

	return toItemResponse(item), nil
}

// Get devuelve un ítem por id, o nil si no existe.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List devuelve una página de ítems.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	items, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out, nil
}

// Update modifica los datos del ítem. El stock no se toca por esta vía.
func (uc *ItemUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.CostPrice = *in.CostPrice
	}
	if in.PackagingUnit != nil {
		item.PackagingUnit = *in.PackagingUnit
	}
	if in.PriceLevels != nil {
		item.PriceLevels = in.PriceLevels
	}
	if in.Status != nil {
		if *in.Status != entity.ItemStatusActive && *in.Status != entity.ItemStatusDiscontinued {
			return nil, domain.ErrInvalidInput
		}
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Update Item",
		fmt.Sprintf("ítem %s (%s) actualizado", item.SKU, item.Name))

	return toItemResponse(item), nil
}

// AdjustStock aplica un ajuste manual con delta con signo. El repositorio
// rechaza el ajuste si dejaría el stock negativo.
func (uc *ItemUseCase) AdjustStock(ctx context.Context, userID, id string, in dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.AdjustStock(id, in.Delta)
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Adjust Stock",
		fmt.Sprintf("ítem %s: ajuste manual de %+d (motivo: %s), stock resultante %d",
			item.SKU, in.Delta, in.Reason, item.Stock))

	return toItemResponse(item), nil
}

// Delete elimina el ítem. Retorna false si no existe.
func (uc *ItemUseCase) Delete(ctx context.Context, userID, id string) (bool, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if err := uc.repo.Delete(id); err != nil {
		return false, err
	}

	uc.audit.Record(ctx, userID, "Delete Item",
		fmt.Sprintf("ítem %s (%s) eliminado", item.SKU, item.Name))

	return true, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            it.ID,
		SKU:           it.SKU,
		Name:          it.Name,
		Description:   it.Description,
		Category:      it.Category,
		CostPrice:     it.CostPrice,
		PackagingUnit: it.PackagingUnit,
		Stock:         it.Stock,
		PriceLevels:   it.PriceLevels,
		Status:        it.Status,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
