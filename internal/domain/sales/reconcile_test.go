package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/sales"
)

func line(itemID string, qty int64, price string) entity.SaleItem {
	return entity.SaleItem{ItemID: itemID, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func req(itemID string, qty int64, price string) sales.RequestedLine {
	return sales.RequestedLine{ItemID: itemID, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func opsByItem(t *testing.T, ops []sales.LineOp) map[string]sales.LineOp {
	t.Helper()
	m := make(map[string]sales.LineOp, len(ops))
	for _, op := range ops {
		m[op.ItemID] = op
	}
	return m
}

// Misma cantidad y mismo precio: ninguna operación con efecto.
func TestReconcile_SinCambios(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.50"), line("b", 1, "2.00")}
	requested := []sales.RequestedLine{req("a", 3, "10.50"), req("b", 1, "2.00")}

	ops, err := sales.Reconcile(existing, requested)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.Equal(t, sales.OpUnchanged, op.Op)
		assert.Zero(t, op.StockDelta())
	}
}

// Cambio de cantidad: el delta de stock es oldQuantity - newQuantity.
func TestReconcile_CambioDeCantidad(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.00")}

	// Aumento: consume 2 unidades más de stock.
	ops, err := sales.Reconcile(existing, []sales.RequestedLine{req("a", 5, "10.00")})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, sales.OpQuantityChanged, ops[0].Op)
	assert.EqualValues(t, -2, ops[0].StockDelta())

	// Reducción: devuelve 2 unidades al stock.
	ops, err = sales.Reconcile(existing, []sales.RequestedLine{req("a", 1, "10.00")})
	require.NoError(t, err)
	assert.EqualValues(t, 2, ops[0].StockDelta())
}

// Solo cambia el precio: sin efecto sobre stock.
func TestReconcile_SoloPrecio(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.00")}
	ops, err := sales.Reconcile(existing, []sales.RequestedLine{req("a", 3, "12.00")})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, sales.OpPriceChanged, ops[0].Op)
	assert.Zero(t, ops[0].StockDelta())
	assert.True(t, ops[0].Price.Equal(decimal.RequireFromString("12.00")))
}

// Cambian cantidad y precio a la vez: una sola operación quantity_changed
// que también lleva el precio nuevo.
func TestReconcile_CantidadYPrecio(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.00")}
	ops, err := sales.Reconcile(existing, []sales.RequestedLine{req("a", 4, "11.00")})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, sales.OpQuantityChanged, ops[0].Op)
	assert.EqualValues(t, -1, ops[0].StockDelta())
	assert.True(t, ops[0].Price.Equal(decimal.RequireFromString("11.00")))
}

// Ítems agregados y removidos en la misma solicitud.
func TestReconcile_AgregadosYRemovidos(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.00"), line("b", 2, "5.00")}
	requested := []sales.RequestedLine{req("a", 3, "10.00"), req("c", 4, "7.00")}

	ops, err := sales.Reconcile(existing, requested)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	m := opsByItem(t, ops)
	assert.Equal(t, sales.OpUnchanged, m["a"].Op)

	assert.Equal(t, sales.OpRemoved, m["b"].Op)
	assert.EqualValues(t, 2, m["b"].StockDelta()) // devolución completa

	assert.Equal(t, sales.OpAdded, m["c"].Op)
	assert.EqualValues(t, -4, m["c"].StockDelta()) // consumo completo
}

// La suma de deltas equivale a la diferencia neta de unidades entre ambas versiones.
func TestReconcile_DeltaNetoConsistente(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "1.00"), line("b", 2, "1.00"), line("c", 5, "1.00")}
	requested := []sales.RequestedLine{req("a", 1, "1.00"), req("c", 5, "1.00"), req("d", 4, "1.00")}

	ops, err := sales.Reconcile(existing, requested)
	require.NoError(t, err)

	var netDelta int64
	for _, op := range ops {
		netDelta += op.StockDelta()
	}
	// Antes: 3+2+5 = 10 unidades; después: 1+5+4 = 10. Delta neto cero,
	// pero compuesto de devoluciones y consumos por ítem.
	assert.Zero(t, netDelta)
}

func TestReconcile_EntradaInvalida(t *testing.T) {
	existing := []entity.SaleItem{line("a", 3, "10.00")}

	// Solicitud vacía
	_, err := sales.Reconcile(existing, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// itemId duplicado
	_, err = sales.Reconcile(existing, []sales.RequestedLine{req("a", 1, "1.00"), req("a", 2, "1.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva
	_, err = sales.Reconcile(existing, []sales.RequestedLine{req("a", 0, "1.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Precio negativo
	_, err = sales.Reconcile(existing, []sales.RequestedLine{req("a", 1, "-1.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
