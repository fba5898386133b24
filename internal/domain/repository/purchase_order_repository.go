package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	Update(po *entity.PurchaseOrder) error
	List(limit, offset int) ([]*entity.PurchaseOrder, error)
	Delete(id string) error
}
