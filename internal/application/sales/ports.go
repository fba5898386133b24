package sales

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo del motor de ventas:
// todo lo que pase dentro de fn se confirma o se descarta en bloque, y el
// rollback ocurre en cualquier salida con error.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// AuditRecorder recibe el registro de cada mutación confirmada.
// Es fire-and-forget: la implementación registra los fallos en el log y
// nunca los propaga al motor.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action, description string)
}
