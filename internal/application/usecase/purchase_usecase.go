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

// PurchaseTxRunner unidad de trabajo para la recepción de órdenes de compra:
// el cambio de estado a received y la entrada de stock van en la misma tx.
type PurchaseTxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// PurchaseUseCase ciclo de vida de órdenes de compra:
// pending -> ordered -> received, con cancelled como salida desde
// pending u ordered. received es terminal y es el único paso que muta stock.
type PurchaseUseCase struct {
	txRunner     PurchaseTxRunner
	poRepo       repository.PurchaseOrderRepository
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	audit        sales.AuditRecorder
}

func NewPurchaseUseCase(
	txRunner PurchaseTxRunner,
	poRepo repository.PurchaseOrderRepository,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	audit sales.AuditRecorder,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		poRepo:       poRepo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		audit:        audit,
	}
}

// Create da de alta una orden en estado pending. Proveedor e ítem deben existir.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || in.ItemID == "" || in.Quantity <= 0 || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		Cost:       in.Cost,
		OrderDate:  orderDate,
		Status:     entity.PurchaseOrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.poRepo.Create(po); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Create Purchase Order",
		fmt.Sprintf("orden %s: %d x ítem %s a proveedor %s", po.ID, po.Quantity, item.SKU, supplier.CompanyName))

	return toPurchaseOrderResponse(po), nil
}

// Get devuelve una orden por id, o nil si no existe.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, nil
	}
	return toPurchaseOrderResponse(po), nil
}

// List devuelve una página de órdenes.
func (uc *PurchaseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	pos, err := uc.poRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(pos)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, po := range pos {
		out.Items = append(out.Items, *toPurchaseOrderResponse(po))
	}
	return out, nil
}

// Update modifica una orden que aún no fue recibida ni cancelada.
// El único cambio de estado admitido por esta vía es pending -> ordered.
func (uc *PurchaseUseCase) Update(ctx context.Context, userID, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status == entity.PurchaseOrderReceived || po.Status == entity.PurchaseOrderCancelled {
		return nil, domain.ErrConflict
	}

	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		po.Quantity = *in.Quantity
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		po.Cost = *in.Cost
	}
	if in.OrderDate != nil {
		po.OrderDate = *in.OrderDate
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.PurchaseOrderPending, entity.PurchaseOrderOrdered:
			po.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	po.UpdatedAt = time.Now()

	if err := uc.poRepo.Update(po); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Update Purchase Order",
		fmt.Sprintf("orden %s actualizada (estado %s)", po.ID, po.Status))

	return toPurchaseOrderResponse(po), nil
}

// Receive marca la orden como recibida y suma la cantidad al stock del ítem,
// ambas cosas en una transacción. Recibir dos veces la misma orden falla con
// conflicto: received es terminal.
func (uc *PurchaseUseCase) Receive(ctx context.Context, userID, id string) (*dto.PurchaseOrderResponse, error) {
	var received *entity.PurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(poRepo repository.PurchaseOrderRepository, itemRepo repository.ItemRepository) error {
		po, err := poRepo.GetByID(id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status == entity.PurchaseOrderReceived || po.Status == entity.PurchaseOrderCancelled {
			return domain.ErrConflict
		}

		po.Status = entity.PurchaseOrderReceived
		po.UpdatedAt = time.Now()
		if err := poRepo.Update(po); err != nil {
			return err
		}
		if _, err := itemRepo.AdjustStock(po.ItemID, po.Quantity); err != nil {
			return err
		}
		received = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Receive Purchase Order",
		fmt.Sprintf("orden %s recibida: %d unidades al stock del ítem %s", received.ID, received.Quantity, received.ItemID))

	return toPurchaseOrderResponse(received), nil
}

// Cancel marca la orden como cancelada. Una orden recibida no se cancela.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, userID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status == entity.PurchaseOrderReceived || po.Status == entity.PurchaseOrderCancelled {
		return nil, domain.ErrConflict
	}

	po.Status = entity.PurchaseOrderCancelled
	po.UpdatedAt = time.Now()
	if err := uc.poRepo.Update(po); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, userID, "Cancel Purchase Order", fmt.Sprintf("orden %s cancelada", po.ID))

	return toPurchaseOrderResponse(po), nil
}

// Delete elimina una orden que no fue recibida. Retorna false si no existe.
func (uc *PurchaseUseCase) Delete(ctx context.Context, userID, id string) (bool, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return false, err
	}
	if po == nil {
		return false, nil
	}
	if po.Status == entity.PurchaseOrderReceived {
		return false, domain.ErrConflict
	}
	if err := uc.poRepo.Delete(id); err != nil {
		return false, err
	}

	uc.audit.Record(ctx, userID, "Delete Purchase Order", fmt.Sprintf("orden %s eliminada", po.ID))

	return true, nil
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	return &dto.PurchaseOrderResponse{
		ID:         po.ID,
		SupplierID: po.SupplierID,
		ItemID:     po.ItemID,
		Quantity:   po.Quantity,
		Cost:       po.Cost,
		OrderDate:  po.OrderDate,
		Status:     po.Status,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}
