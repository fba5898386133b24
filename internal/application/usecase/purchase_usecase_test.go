package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// Dobles en memoria para el ciclo de vida de órdenes de compra.

type memPOStore struct {
	orders    map[string]*entity.PurchaseOrder
	items     map[string]*entity.Item
	suppliers map[string]*entity.Supplier
}

type memPORepo struct{ s *memPOStore }

func (r *memPORepo) Create(po *entity.PurchaseOrder) error { cp := *po; r.s.orders[po.ID] = &cp; return nil }
func (r *memPORepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	po, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	return &cp, nil
}
func (r *memPORepo) Update(po *entity.PurchaseOrder) error { cp := *po; r.s.orders[po.ID] = &cp; return nil }
func (r *memPORepo) List(int, int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.orders {
		cp := *po
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memPORepo) Delete(id string) error { delete(r.s.orders, id); return nil }

type memPOItemRepo struct{ s *memPOStore }

func (r *memPOItemRepo) Create(item *entity.Item) error { r.s.items[item.ID] = item; return nil }
func (r *memPOItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}
func (r *memPOItemRepo) GetBySKU(string) (*entity.Item, error) { return nil, nil }
func (r *memPOItemRepo) Update(item *entity.Item) error        { r.s.items[item.ID] = item; return nil }
func (r *memPOItemRepo) List(int, int) ([]*entity.Item, error) { return nil, nil }
func (r *memPOItemRepo) Delete(id string) error                { delete(r.s.items, id); return nil }
func (r *memPOItemRepo) AdjustStock(itemID string, delta int64) (*entity.Item, error) {
	it, ok := r.s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Stock+delta < 0 {
		return nil, &domain.InsufficientStockError{ItemID: itemID, ItemName: it.Name, Requested: -delta, Available: it.Stock}
	}
	it.Stock += delta
	cp := *it
	return &cp, nil
}

type memSupplierRepo struct{ s *memPOStore }

func (r *memSupplierRepo) Create(sup *entity.Supplier) error { r.s.suppliers[sup.ID] = sup; return nil }
func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}
func (r *memSupplierRepo) Update(sup *entity.Supplier) error        { r.s.suppliers[sup.ID] = sup; return nil }
func (r *memSupplierRepo) List(int, int) ([]*entity.Supplier, error) { return nil, nil }
func (r *memSupplierRepo) Delete(id string) error                   { delete(r.s.suppliers, id); return nil }

type memPOTxRunner struct{ s *memPOStore }

func (t *memPOTxRunner) RunPurchase(ctx context.Context, fn func(repository.PurchaseOrderRepository, repository.ItemRepository) error) error {
	return fn(&memPORepo{t.s}, &memPOItemRepo{t.s})
}

type poNoopAudit struct{}

func (poNoopAudit) Record(context.Context, string, string, string) {}

func newPurchaseUC() (*PurchaseUseCase, *memPOStore) {
	store := &memPOStore{
		orders: make(map[string]*entity.PurchaseOrder),
		items: map[string]*entity.Item{
			"itm-1": {ID: "itm-1", SKU: "SKU-1", Name: "Harina 1kg", Stock: 4, Status: entity.ItemStatusActive},
		},
		suppliers: map[string]*entity.Supplier{
			"sup-1": {ID: "sup-1", CompanyName: "Distribuidora Norte"},
		},
	}
	uc := NewPurchaseUseCase(
		&memPOTxRunner{store},
		&memPORepo{store},
		&memPOItemRepo{store},
		&memSupplierRepo{store},
		poNoopAudit{},
	)
	return uc, store
}

func TestPurchaseUseCase_CrearOrdenPendiente(t *testing.T) {
	uc, _ := newPurchaseUC()

	out, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		ItemID:     "itm-1",
		Quantity:   12,
		Cost:       decimal.NewFromFloat(3.50),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.PurchaseOrderPending, out.Status)
	assert.Equal(t, int64(12), out.Quantity)
}

func TestPurchaseUseCase_CrearConProveedorInexistente(t *testing.T) {
	uc, _ := newPurchaseUC()

	_, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "no-existe",
		ItemID:     "itm-1",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseUseCase_RecibirSumaStock(t *testing.T) {
	uc, store := newPurchaseUC()

	created, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", ItemID: "itm-1", Quantity: 10,
	})
	require.NoError(t, err)

	out, err := uc.Receive(context.Background(), "user-1", created.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderReceived, out.Status)
	assert.Equal(t, int64(14), store.items["itm-1"].Stock)
}

func TestPurchaseUseCase_RecibirDosVecesEsConflicto(t *testing.T) {
	uc, store := newPurchaseUC()

	created, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", ItemID: "itm-1", Quantity: 10,
	})
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), "user-1", created.ID)
	require.NoError(t, err)

	// received es terminal: el segundo intento no vuelve a sumar stock.
	_, err = uc.Receive(context.Background(), "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(14), store.items["itm-1"].Stock)
}

func TestPurchaseUseCase_CancelarOrdenRecibidaEsConflicto(t *testing.T) {
	uc, _ := newPurchaseUC()

	created, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", ItemID: "itm-1", Quantity: 2,
	})
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), "user-1", created.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPurchaseUseCase_ActualizarEstadoPendingAOrdered(t *testing.T) {
	uc, _ := newPurchaseUC()

	created, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", ItemID: "itm-1", Quantity: 2,
	})
	require.NoError(t, err)

	ordered := entity.PurchaseOrderOrdered
	out, err := uc.Update(context.Background(), "user-1", created.ID, dto.UpdatePurchaseOrderRequest{Status: &ordered})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderOrdered, out.Status)

	// received no es alcanzable vía Update, solo vía Receive.
	received := entity.PurchaseOrderReceived
	_, err = uc.Update(context.Background(), "user-1", created.ID, dto.UpdatePurchaseOrderRequest{Status: &received})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseUseCase_EliminarOrdenRecibidaEsConflicto(t *testing.T) {
	uc, _ := newPurchaseUC()

	created, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1", ItemID: "itm-1", Quantity: 2,
	})
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), "user-1", created.ID)
	require.NoError(t, err)

	_, err = uc.Delete(context.Background(), "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Una orden inexistente se reporta como (false, nil).
	ok, err := uc.Delete(context.Background(), "user-1", "no-existe")
	require.NoError(t, err)
	assert.False(t, ok)
}
