package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// ReceiptLine una línea del recibo con el nombre del ítem resuelto.
type ReceiptLine struct {
	SKU      string
	ItemName string
	Quantity int64
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// ReceiptData todo lo necesario para renderizar el recibo de una venta.
type ReceiptData struct {
	Sale         *entity.Sale
	CustomerName string // vacío en venta de mostrador
	Lines        []ReceiptLine
}

// ReceiptGenerator renderiza el recibo de una venta a PDF.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}

// ReceiptUseCase arma los datos del recibo (venta, cliente y nombres de ítems)
// y delega el render al generador.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	generator    ReceiptGenerator
}

func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// Generate produce el PDF del recibo de la venta indicada.
func (uc *ReceiptUseCase) Generate(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	data := &ReceiptData{Sale: sale}

	if sale.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(*sale.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			data.CustomerName = customer.Name
		}
	}

	for _, line := range sale.Items {
		rl := ReceiptLine{
			Quantity: line.Quantity,
			Price:    line.Price,
			Subtotal: line.Price.Mul(decimal.NewFromInt(line.Quantity)),
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			rl.SKU = item.SKU
			rl.ItemName = item.Name
		} else {
			// El ítem pudo haberse borrado del catálogo después de la venta.
			rl.ItemName = line.ItemID
		}
		data.Lines = append(data.Lines, rl)
	}

	return uc.generator.GenerateReceiptPDF(ctx, data)
}
