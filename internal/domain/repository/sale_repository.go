package repository

import (
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// SaleFilter criterios opcionales para listar ventas.
type SaleFilter struct {
	CustomerID    string
	PaymentMethod string
	From          *time.Time
	To            *time.Time
}

// SaleRepository puerto de persistencia para ventas (cabecera + líneas).
// GetByID devuelve la venta con todas sus líneas, o nil si no existe.
// List devuelve solo cabeceras.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	UpdateHeader(sale *entity.Sale) error
	UpdateItem(item *entity.SaleItem) error
	DeleteItem(saleID, itemID string) error
	DeleteItems(saleID string) error
	Delete(id string) error
	List(f SaleFilter, limit, offset int) ([]*entity.Sale, error)
}
