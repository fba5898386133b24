package sales

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// memStore respalda los repos en memoria para los tests del motor.
type memStore struct {
	mu    sync.Mutex
	items map[string]*entity.Item
	sales map[string]*entity.Sale
	lines map[string][]entity.SaleItem
}

func newMemStore() *memStore {
	return &memStore{
		items: make(map[string]*entity.Item),
		sales: make(map[string]*entity.Sale),
		lines: make(map[string][]entity.SaleItem),
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, it := range s.items {
		cp := *it
		snap.items[id] = &cp
	}
	for id, sale := range s.sales {
		cp := *sale
		cp.Items = nil
		snap.sales[id] = &cp
	}
	for id, lines := range s.lines {
		snap.lines[id] = append([]entity.SaleItem(nil), lines...)
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.sales = snap.sales
	s.lines = snap.lines
}

type memItemRepo struct{ store *memStore }

func (r *memItemRepo) Create(item *entity.Item) error {
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range r.store.items {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.Item, error) { return nil, nil }

func (r *memItemRepo) Delete(id string) error {
	delete(r.store.items, id)
	return nil
}

func (r *memItemRepo) AdjustStock(itemID string, delta int64) (*entity.Item, error) {
	it, ok := r.store.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Stock+delta < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID:    itemID,
			ItemName:  it.Name,
			Requested: -delta,
			Available: it.Stock,
		}
	}
	it.Stock += delta
	cp := *it
	return &cp, nil
}

type memSaleRepo struct{ store *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.store.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.store.lines[item.SaleID] = append(r.store.lines[item.SaleID], *item)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), r.store.lines[id]...)
	return &cp, nil
}

func (r *memSaleRepo) UpdateHeader(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.store.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) UpdateItem(item *entity.SaleItem) error {
	lines := r.store.lines[item.SaleID]
	for i := range lines {
		if lines[i].ItemID == item.ItemID {
			lines[i] = *item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memSaleRepo) DeleteItem(saleID, itemID string) error {
	lines := r.store.lines[saleID]
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	r.store.lines[saleID] = out
	return nil
}

func (r *memSaleRepo) DeleteItems(saleID string) error {
	delete(r.store.lines, saleID)
	return nil
}

func (r *memSaleRepo) Delete(id string) error {
	delete(r.store.sales, id)
	return nil
}

func (r *memSaleRepo) List(f repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for id := range r.store.sales {
		s, _ := r.GetByID(id)
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// memTxRunner serializa las transacciones con un mutex y simula el rollback
// restaurando un snapshot del estado cuando fn retorna error.
type memTxRunner struct{ store *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(repository.SaleRepository, repository.ItemRepository) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(&memSaleRepo{t.store}, &memItemRepo{t.store}); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type recordedAudit struct {
	UserID, Action, Description string
}

type memAudit struct {
	mu      sync.Mutex
	records []recordedAudit
}

func (a *memAudit) Record(ctx context.Context, userID, action, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, recordedAudit{userID, action, description})
}

func newTestEngine() (*Engine, *memStore, *memAudit) {
	store := newMemStore()
	audit := &memAudit{}
	eng := NewEngine(&memTxRunner{store}, &memItemRepo{store}, &memSaleRepo{store}, audit)
	return eng, store, audit
}

func seedItem(store *memStore, id, name string, stock int64) {
	store.items[id] = &entity.Item{
		ID:     id,
		SKU:    "SKU-" + id,
		Name:   name,
		Stock:  stock,
		Status: entity.ItemStatusActive,
	}
}

func saleReq(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		TotalAmount:   decimal.NewFromInt(100),
		PaymentMethod: entity.PaymentCash,
		Items:         items,
	}
}

func itemReq(itemID string, qty int64, price int64) dto.SaleItemRequest {
	return dto.SaleItemRequest{ItemID: itemID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestEngine_CrearVentaDescuentaStock(t *testing.T) {
	eng, store, audit := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)

	resp, err := eng.Create(context.Background(), "usr-1", saleReq(itemReq("itm-a", 3, 25)))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(7), store.items["itm-a"].Stock)

	got, err := eng.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, resp.ID, got.ID)
	assert.Equal(t, int64(3), got.Items[0].Quantity)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "Create Sale", audit.records[0].Action)
	assert.Equal(t, "usr-1", audit.records[0].UserID)
}

func TestEngine_CrearVentaStockInsuficiente(t *testing.T) {
	eng, store, _ := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 5)

	_, err := eng.Create(context.Background(), "usr-1", saleReq(itemReq("itm-a", 8, 25)))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(8), insufficient.Requested)
	assert.Equal(t, int64(5), insufficient.Available)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Equal(t, int64(5), store.items["itm-a"].Stock)
	assert.Empty(t, store.sales)
}

func TestEngine_CrearVentaAtomica(t *testing.T) {
	eng, store, audit := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)
	seedItem(store, "itm-b", "Azúcar", 10)

	// La tercera línea referencia un ítem inexistente: nada debe quedar aplicado.
	_, err := eng.Create(context.Background(), "usr-1", saleReq(
		itemReq("itm-a", 2, 10),
		itemReq("itm-b", 2, 10),
		itemReq("itm-x", 1, 10),
	))
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(10), store.items["itm-a"].Stock)
	assert.Equal(t, int64(10), store.items["itm-b"].Stock)
	assert.Empty(t, store.sales)
	assert.Empty(t, store.lines)
	assert.Empty(t, audit.records)
}

func TestEngine_CrearVentasConcurrentes(t *testing.T) {
	eng, store, _ := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Create(context.Background(), "usr-1", saleReq(itemReq("itm-a", 5, 10)))
		}(i)
	}
	wg.Wait()

	// Exactamente una de las dos ventas gana las 5 unidades.
	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, int64(0), store.items["itm-a"].Stock)
	assert.Len(t, store.sales, 1)
}

func TestEngine_CrearVentaEntradaInvalida(t *testing.T) {
	eng, store, _ := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)

	cases := map[string]dto.CreateSaleRequest{
		"sin líneas":         saleReq(),
		"cantidad cero":      saleReq(itemReq("itm-a", 0, 10)),
		"precio negativo":    saleReq(dto.SaleItemRequest{ItemID: "itm-a", Quantity: 1, Price: decimal.NewFromInt(-1)}),
		"ítem duplicado":     saleReq(itemReq("itm-a", 1, 10), itemReq("itm-a", 2, 10)),
		"método de pago":     {TotalAmount: decimal.NewFromInt(10), PaymentMethod: "cheque", Items: []dto.SaleItemRequest{itemReq("itm-a", 1, 10)}},
		"total negativo":     {TotalAmount: decimal.NewFromInt(-10), PaymentMethod: entity.PaymentCash, Items: []dto.SaleItemRequest{itemReq("itm-a", 1, 10)}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := eng.Create(context.Background(), "usr-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(10), store.items["itm-a"].Stock)
}

func TestEngine_ObtenerVentaInexistente(t *testing.T) {
	eng, _, _ := newTestEngine()
	got, err := eng.Get(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEngine_ActualizarVentaReconcilia(t *testing.T) {
	eng, store, audit := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)
	seedItem(store, "itm-b", "Azúcar", 10)
	seedItem(store, "itm-c", "Arroz", 10)

	created, err := eng.Create(context.Background(), "usr-1", saleReq(
		itemReq("itm-a", 3, 10),
		itemReq("itm-b", 2, 5),
	))
	require.NoError(t, err)
	require.Equal(t, int64(7), store.items["itm-a"].Stock)
	require.Equal(t, int64(8), store.items["itm-b"].Stock)

	// itm-a sube a 5, itm-b sale, itm-c entra con 4.
	newTotal := decimal.NewFromInt(90)
	updated, err := eng.Update(context.Background(), "usr-1", created.ID, dto.UpdateSaleRequest{
		TotalAmount: &newTotal,
		Items: []dto.SaleItemRequest{
			itemReq("itm-a", 5, 10),
			itemReq("itm-c", 4, 5),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), store.items["itm-a"].Stock)
	assert.Equal(t, int64(10), store.items["itm-b"].Stock)
	assert.Equal(t, int64(6), store.items["itm-c"].Stock)

	assert.True(t, updated.TotalAmount.Equal(newTotal))
	require.Len(t, updated.Items, 2)
	assert.Equal(t, "itm-a", updated.Items[0].ItemID)
	assert.Equal(t, int64(5), updated.Items[0].Quantity)
	assert.Equal(t, "itm-c", updated.Items[1].ItemID)

	require.Len(t, audit.records, 2)
	assert.Equal(t, "Update Sale", audit.records[1].Action)
}

func TestEngine_ActualizarVentaSoloCabecera(t *testing.T) {
	eng, store, _ := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)

	created, err := eng.Create(context.Background(), "usr-1", saleReq(itemReq("itm-a", 3, 10)))
	require.NoError(t, err)

	method := entity.PaymentDebit
	updated, err := eng.Update(context.Background(), "usr-1", created.ID, dto.UpdateSaleRequest{
		PaymentMethod: &method,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentDebit, updated.PaymentMethod)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(3), updated.Items[0].Quantity)
	assert.Equal(t, int64(7), store.items["itm-a"].Stock)
}

func TestEngine_ActualizarVentaStockInsuficiente(t *testing.T) {
	eng, store, _ := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 5)

	created, err := eng.Create(context.Background(), "usr-1", saleReq(itemReq("itm-a", 3, 10)))
	require.NoError(t, err)
	require.Equal(t, int64(2), store.items["itm-a"].Stock)

	// Pedir 6 necesita 3 unidades más y solo quedan 2.
	_, err = eng.Update(context.Background(), "usr-1", created.ID, dto.UpdateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("itm-a", 6, 10)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni stock ni líneas cambian.
	assert.Equal(t, int64(2), store.items["itm-a"].Stock)
	got, err := eng.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Items[0].Quantity)
}

func TestEngine_ActualizarVentaInexistente(t *testing.T) {
	eng, _, _ := newTestEngine()
	_, err := eng.Update(context.Background(), "usr-1", "no-existe", dto.UpdateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_AnularVentaRestituyeStock(t *testing.T) {
	eng, store, audit := newTestEngine()
	seedItem(store, "itm-a", "Café molido", 10)
	seedItem(store, "itm-b", "Azúcar", 10)

	created, err := eng.Create(context.Background(), "usr-1", saleReq(
		itemReq("itm-a", 3, 10),
		itemReq("itm-b", 4, 5),
	))
	require.NoError(t, err)
	require.Equal(t, int64(7), store.items["itm-a"].Stock)

	deleted, err := eng.Delete(context.Background(), "usr-1", created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Equal(t, int64(10), store.items["itm-a"].Stock)
	assert.Equal(t, int64(10), store.items["itm-b"].Stock)
	got, err := eng.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// La segunda anulación no encuentra la venta y no toca el stock.
	deleted, err = eng.Delete(context.Background(), "usr-1", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, int64(10), store.items["itm-a"].Stock)

	require.Len(t, audit.records, 2)
	assert.Equal(t, "Delete Sale", audit.records[1].Action)
}
