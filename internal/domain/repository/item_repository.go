package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// ItemRepository puerto de persistencia para ítems del catálogo.
// AdjustStock es la única vía para mutar el contador de stock: aplica el delta
// como un read-modify-write atómico sobre el valor actual en la DB y falla con
// InsufficientStockError si el resultado quedaría negativo. Debe invocarse
// dentro de la misma transacción que la mutación de la venta.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
	AdjustStock(itemID string, delta int64) (*entity.Item, error)
}
