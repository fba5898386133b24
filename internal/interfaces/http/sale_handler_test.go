package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	apphttp "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
)

// Fakes en memoria para ejercitar el motor a través del handler HTTP.

type fakeStore struct {
	mu    sync.Mutex
	items map[string]*entity.Item
	sales map[string]*entity.Sale
	lines map[string][]entity.SaleItem
}

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}
func (r *fakeItemRepo) GetBySKU(string) (*entity.Item, error)       { return nil, nil }
func (r *fakeItemRepo) Update(item *entity.Item) error              { r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) List(int, int) ([]*entity.Item, error)       { return nil, nil }
func (r *fakeItemRepo) Delete(id string) error                      { delete(r.s.items, id); return nil }
func (r *fakeItemRepo) AdjustStock(itemID string, delta int64) (*entity.Item, error) {
	it, ok := r.s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Stock+delta < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID: itemID, ItemName: it.Name, Requested: -delta, Available: it.Stock,
		}
	}
	it.Stock += delta
	cp := *it
	return &cp, nil
}

type fakeSaleRepo struct{ s *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.s.sales[sale.ID] = &cp
	return nil
}
func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.lines[item.SaleID] = append(r.s.lines[item.SaleID], *item)
	return nil
}
func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), r.s.lines[id]...)
	return &cp, nil
}
func (r *fakeSaleRepo) UpdateHeader(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.s.sales[sale.ID] = &cp
	return nil
}
func (r *fakeSaleRepo) UpdateItem(item *entity.SaleItem) error {
	lines := r.s.lines[item.SaleID]
	for i := range lines {
		if lines[i].ItemID == item.ItemID {
			lines[i] = *item
		}
	}
	return nil
}
func (r *fakeSaleRepo) DeleteItem(saleID, itemID string) error {
	lines := r.s.lines[saleID]
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	r.s.lines[saleID] = out
	return nil
}
func (r *fakeSaleRepo) DeleteItems(saleID string) error { delete(r.s.lines, saleID); return nil }
func (r *fakeSaleRepo) Delete(id string) error          { delete(r.s.sales, id); return nil }
func (r *fakeSaleRepo) List(repository.SaleFilter, int, int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for id := range r.s.sales {
		s, _ := r.GetByID(id)
		out = append(out, s)
	}
	return out, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(repository.SaleRepository, repository.ItemRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(&fakeSaleRepo{t.s}, &fakeItemRepo{t.s})
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, string, string, string) {}

func newSaleTestApp(t *testing.T) (*fiber.App, *fakeStore) {
	t.Helper()
	store := &fakeStore{
		items: map[string]*entity.Item{
			"itm-a": {ID: "itm-a", SKU: "SKU-A", Name: "Café molido", Stock: 10, Status: entity.ItemStatusActive},
		},
		sales: make(map[string]*entity.Sale),
		lines: make(map[string][]entity.SaleItem),
	}
	engine := sales.NewEngine(&fakeTxRunner{store}, &fakeItemRepo{store}, &fakeSaleRepo{store}, noopAudit{})
	handler := apphttp.NewSaleHandler(engine, nil)

	app := fiber.New()
	managerOnly := apphttp.RequireRole(entity.RoleManager)
	grp := app.Group("/api/sales", apphttp.AuthMiddleware(testJWTSecret))
	grp.Post("/", handler.Create)
	grp.Get("/:id", handler.GetByID)
	grp.Put("/:id", managerOnly, handler.Update)
	grp.Delete("/:id", managerOnly, handler.Delete)
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSaleHandler_CrearVenta(t *testing.T) {
	app, store := newSaleTestApp(t)

	body := `{"total_amount":"75.00","payment_method":"cash","items":[{"item_id":"itm-a","quantity":3,"price":"25.00"}]}`
	resp := postJSON(t, app, http.MethodPost, "/api/sales/", tokenForRole(t, "cashier"), body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.SaleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ID)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	assert.Equal(t, int64(7), store.items["itm-a"].Stock)
}

func TestSaleHandler_StockInsuficienteRetorna409(t *testing.T) {
	app, store := newSaleTestApp(t)

	body := `{"total_amount":"10.00","payment_method":"cash","items":[{"item_id":"itm-a","quantity":99,"price":"1.00"}]}`
	resp := postJSON(t, app, http.MethodPost, "/api/sales/", tokenForRole(t, "cashier"), body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")
	assert.Equal(t, int64(10), store.items["itm-a"].Stock)
}

func TestSaleHandler_EntradaInvalidaRetorna400(t *testing.T) {
	app, _ := newSaleTestApp(t)

	body := `{"total_amount":"10.00","payment_method":"cheque","items":[{"item_id":"itm-a","quantity":1,"price":"1.00"}]}`
	resp := postJSON(t, app, http.MethodPost, "/api/sales/", tokenForRole(t, "cashier"), body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaleHandler_VentaInexistenteRetorna404(t *testing.T) {
	app, _ := newSaleTestApp(t)

	resp := postJSON(t, app, http.MethodGet, "/api/sales/no-existe", tokenForRole(t, "cashier"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaleHandler_CashierNoPuedeEditarNiAnular(t *testing.T) {
	app, _ := newSaleTestApp(t)

	resp := postJSON(t, app, http.MethodPut, "/api/sales/cualquiera", tokenForRole(t, "cashier"), `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp2 := postJSON(t, app, http.MethodDelete, "/api/sales/cualquiera", tokenForRole(t, "cashier"), "")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestSaleHandler_ManagerAnulaVenta(t *testing.T) {
	app, store := newSaleTestApp(t)

	body := `{"total_amount":"50.00","payment_method":"debit","items":[{"item_id":"itm-a","quantity":2,"price":"25.00"}]}`
	resp := postJSON(t, app, http.MethodPost, "/api/sales/", tokenForRole(t, "cashier"), body)
	var created dto.SaleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, int64(8), store.items["itm-a"].Stock)

	del := postJSON(t, app, http.MethodDelete, "/api/sales/"+created.ID, tokenForRole(t, "manager"), "")
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
	assert.Equal(t, int64(10), store.items["itm-a"].Stock)

	// Anular otra vez es 404, sin tocar stock.
	del2 := postJSON(t, app, http.MethodDelete, "/api/sales/"+created.ID, tokenForRole(t, "manager"), "")
	defer del2.Body.Close()
	assert.Equal(t, http.StatusNotFound, del2.StatusCode)
	assert.Equal(t, int64(10), store.items["itm-a"].Stock)
}
