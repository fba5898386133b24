// Package sales contiene la lógica de dominio pura del motor de ventas:
// la reconciliación entre las líneas existentes de una venta y las líneas
// solicitadas en una actualización. No toca la base de datos; produce un
// conjunto de operaciones etiquetadas que el caso de uso aplica dentro de
// una transacción.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// Etiquetas de las operaciones resultantes de la reconciliación.
const (
	OpUnchanged       = "unchanged"
	OpQuantityChanged = "quantity_changed"
	OpPriceChanged    = "price_changed"
	OpAdded           = "added"
	OpRemoved         = "removed"
)

// RequestedLine es una línea solicitada en la actualización de una venta.
type RequestedLine struct {
	ItemID   string
	Quantity int64
	Price    decimal.Decimal
}

// LineOp es una operación sobre una línea, resultado de la reconciliación.
// StockDelta indica cuánto stock devolver al catálogo (positivo) o consumir
// de él (negativo) al aplicar la operación.
type LineOp struct {
	Op          string
	ItemID      string
	OldQuantity int64
	NewQuantity int64
	Price       decimal.Decimal
}

// StockDelta devuelve el ajuste de stock que implica la operación:
// oldQuantity - newQuantity. Un aumento de cantidad consume stock (delta
// negativo); una reducción o eliminación lo devuelve (delta positivo).
func (o LineOp) StockDelta() int64 {
	return o.OldQuantity - o.NewQuantity
}

// Reconcile computa la diferencia simétrica entre las líneas existentes y las
// solicitadas, con itemId como llave. El resultado contiene una operación por
// ítem involucrado, en orden: primero las líneas existentes (en su orden
// original), luego las agregadas (en el orden de la solicitud).
//
// Retorna ErrInvalidInput si la solicitud está vacía, repite un itemId o trae
// cantidades no positivas o precios negativos.
func Reconcile(existing []entity.SaleItem, requested []RequestedLine) ([]LineOp, error) {
	if len(requested) == 0 {
		return nil, domain.ErrInvalidInput
	}

	byItem := make(map[string]RequestedLine, len(requested))
	for _, line := range requested {
		if line.ItemID == "" || line.Quantity <= 0 || line.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := byItem[line.ItemID]; dup {
			return nil, domain.ErrInvalidInput
		}
		byItem[line.ItemID] = line
	}

	ops := make([]LineOp, 0, len(existing)+len(requested))
	seen := make(map[string]bool, len(existing))

	for _, old := range existing {
		seen[old.ItemID] = true
		req, ok := byItem[old.ItemID]
		if !ok {
			ops = append(ops, LineOp{
				Op:          OpRemoved,
				ItemID:      old.ItemID,
				OldQuantity: old.Quantity,
				Price:       old.Price,
			})
			continue
		}
		switch {
		case req.Quantity != old.Quantity:
			ops = append(ops, LineOp{
				Op:          OpQuantityChanged,
				ItemID:      old.ItemID,
				OldQuantity: old.Quantity,
				NewQuantity: req.Quantity,
				Price:       req.Price,
			})
		case !req.Price.Equal(old.Price):
			ops = append(ops, LineOp{
				Op:          OpPriceChanged,
				ItemID:      old.ItemID,
				OldQuantity: old.Quantity,
				NewQuantity: old.Quantity,
				Price:       req.Price,
			})
		default:
			ops = append(ops, LineOp{
				Op:          OpUnchanged,
				ItemID:      old.ItemID,
				OldQuantity: old.Quantity,
				NewQuantity: old.Quantity,
				Price:       old.Price,
			})
		}
	}

	for _, line := range requested {
		if seen[line.ItemID] {
			continue
		}
		ops = append(ops, LineOp{
			Op:          OpAdded,
			ItemID:      line.ItemID,
			NewQuantity: line.Quantity,
			Price:       line.Price,
		})
	}

	return ops, nil
}
