package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	domsales "github.com/jhoicas/puntoventa-api/internal/domain/sales"
)

// Engine es el motor transaccional de ventas: crea, consulta, actualiza y
// anula una venta con sus líneas, manteniendo el stock del catálogo
// consistente. Cada mutación es una unidad de trabajo atómica (TxRunner);
// el descuento de stock ocurre dentro de esa misma transacción mediante el
// decremento condicional de ItemRepository.AdjustStock, de modo que dos
// ventas concurrentes por el mismo ítem nunca dejan stock negativo.
type Engine struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	saleRepo repository.SaleRepository
	audit    AuditRecorder
}

// NewEngine construye el motor. itemRepo y saleRepo atados al pool se usan
// solo para lecturas fuera de transacción; toda mutación pasa por txRunner.
func NewEngine(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	audit AuditRecorder,
) *Engine {
	return &Engine{
		txRunner: txRunner,
		itemRepo: itemRepo,
		saleRepo: saleRepo,
		audit:    audit,
	}
}

// Create valida la solicitud, verifica stock por línea (fail-fast, sin
// aplicación parcial) y persiste cabecera, líneas y descuentos de stock en
// una sola transacción. El pre-chequeo de stock es solo cortesía para fallar
// temprano: la garantía real la da el decremento condicional dentro de la tx.
func (e *Engine) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateLines(in.Items); err != nil {
		return nil, err
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Pre-chequeo por línea: ítem existente y stock suficiente.
	for _, line := range in.Items {
		item, err := e.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if item.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Requested: line.Quantity,
				Available: item.Stock,
			}
		}
	}

	now := time.Now()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		SaleDate:      saleDate,
		TotalAmount:   in.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range in.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:       uuid.New().String(),
			SaleID:   sale.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	err := e.txRunner.Run(ctx, func(saleRepo repository.SaleRepository, itemRepo repository.ItemRepository) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for i := range sale.Items {
			if err := saleRepo.CreateItem(&sale.Items[i]); err != nil {
				return err
			}
			if _, err := itemRepo.AdjustStock(sale.Items[i].ItemID, -sale.Items[i].Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.audit.Record(ctx, userID, "Create Sale",
		fmt.Sprintf("venta %s: %d líneas, %d unidades, total %s",
			sale.ID, len(sale.Items), sale.TotalQuantity(), sale.TotalAmount.StringFixed(2)))

	return toSaleResponse(sale), nil
}

// Get reconstruye la venta con todas sus líneas. Lectura pura, sin efecto
// sobre stock. Retorna nil si no existe.
func (e *Engine) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := e.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List devuelve cabeceras de venta según el filtro.
func (e *Engine) List(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	f := repository.SaleFilter{
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		From:          in.From,
		To:            in.To,
	}
	list, err := e.saleRepo.List(f, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s))
	}
	return out, nil
}

// Update reconcilia las líneas anteriores contra las solicitadas y aplica
// cabecera, líneas y ajustes de stock por ítem en una sola transacción.
// Cualquier fallo de validación en una línea aborta la actualización entera:
// el estado previo queda intacto.
func (e *Engine) Update(ctx context.Context, userID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if in.PaymentMethod != nil && !entity.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalAmount != nil && in.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Items != nil {
		if err := validateLines(in.Items); err != nil {
			return nil, err
		}
	}

	var updated *entity.Sale
	err := e.txRunner.Run(ctx, func(saleRepo repository.SaleRepository, itemRepo repository.ItemRepository) error {
		sale, err := saleRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}

		if in.CustomerID != nil {
			sale.CustomerID = in.CustomerID
		}
		if in.SaleDate != nil {
			sale.SaleDate = *in.SaleDate
		}
		if in.TotalAmount != nil {
			sale.TotalAmount = *in.TotalAmount
		}
		if in.PaymentMethod != nil {
			sale.PaymentMethod = *in.PaymentMethod
		}

		if in.Items != nil {
			ops, err := domsales.Reconcile(sale.Items, toRequestedLines(in.Items))
			if err != nil {
				return err
			}
			if err := e.applyLineOps(saleRepo, itemRepo, sale, ops); err != nil {
				return err
			}
		}

		sale.UpdatedAt = time.Now()
		if err := saleRepo.UpdateHeader(sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.audit.Record(ctx, userID, "Update Sale",
		fmt.Sprintf("venta %s: %d líneas, total %s",
			updated.ID, len(updated.Items), updated.TotalAmount.StringFixed(2)))

	return toSaleResponse(updated), nil
}

// applyLineOps aplica las operaciones de la reconciliación dentro de la tx.
// El ajuste de stock va ítem por ítem (no neteado al final) para que un fallo
// en una línea no deje aplicados los cambios de las otras, y para que cada
// delta quede trazable por ítem.
func (e *Engine) applyLineOps(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	sale *entity.Sale,
	ops []domsales.LineOp,
) error {
	result := make([]entity.SaleItem, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case domsales.OpUnchanged:
			result = append(result, findLine(sale.Items, op.ItemID))

		case domsales.OpPriceChanged:
			line := findLine(sale.Items, op.ItemID)
			line.Price = op.Price
			if err := saleRepo.UpdateItem(&line); err != nil {
				return err
			}
			result = append(result, line)

		case domsales.OpQuantityChanged:
			line := findLine(sale.Items, op.ItemID)
			line.Quantity = op.NewQuantity
			line.Price = op.Price
			if err := saleRepo.UpdateItem(&line); err != nil {
				return err
			}
			// El decremento condicional re-valida stock >= 0 cuando el delta es negativo.
			if _, err := itemRepo.AdjustStock(op.ItemID, op.StockDelta()); err != nil {
				return err
			}
			result = append(result, line)

		case domsales.OpAdded:
			line := entity.SaleItem{
				ID:       uuid.New().String(),
				SaleID:   sale.ID,
				ItemID:   op.ItemID,
				Quantity: op.NewQuantity,
				Price:    op.Price,
			}
			if _, err := itemRepo.AdjustStock(op.ItemID, -op.NewQuantity); err != nil {
				return err
			}
			if err := saleRepo.CreateItem(&line); err != nil {
				return err
			}
			result = append(result, line)

		case domsales.OpRemoved:
			if err := saleRepo.DeleteItem(sale.ID, op.ItemID); err != nil {
				return err
			}
			if _, err := itemRepo.AdjustStock(op.ItemID, op.OldQuantity); err != nil {
				return err
			}
		}
	}
	sale.Items = result
	return nil
}

// Delete anula la venta: devuelve al stock la cantidad de cada línea y borra
// líneas y cabecera, todo en una transacción. Si la venta no existe retorna
// false sin efectos; una segunda anulación del mismo id es por tanto inocua.
func (e *Engine) Delete(ctx context.Context, userID, id string) (bool, error) {
	var voided *entity.Sale
	err := e.txRunner.Run(ctx, func(saleRepo repository.SaleRepository, itemRepo repository.ItemRepository) error {
		sale, err := saleRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return nil
		}
		for _, line := range sale.Items {
			if _, err := itemRepo.AdjustStock(line.ItemID, line.Quantity); err != nil {
				return err
			}
		}
		if err := saleRepo.DeleteItems(id); err != nil {
			return err
		}
		if err := saleRepo.Delete(id); err != nil {
			return err
		}
		voided = sale
		return nil
	})
	if err != nil {
		return false, err
	}
	if voided == nil {
		return false, nil
	}

	e.audit.Record(ctx, userID, "Delete Sale",
		fmt.Sprintf("venta %s anulada: %d unidades devueltas al stock", voided.ID, voided.TotalQuantity()))

	return true, nil
}

func validateLines(lines []dto.SaleItemRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.ItemID == "" || line.Quantity <= 0 || line.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
		if seen[line.ItemID] {
			return domain.ErrInvalidInput
		}
		seen[line.ItemID] = true
	}
	return nil
}

func toRequestedLines(lines []dto.SaleItemRequest) []domsales.RequestedLine {
	out := make([]domsales.RequestedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, domsales.RequestedLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return out
}

func findLine(items []entity.SaleItem, itemID string) entity.SaleItem {
	for _, it := range items {
		if it.ItemID == itemID {
			return it
		}
	}
	return entity.SaleItem{}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return resp
}
