package receiving_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/receiving"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func orderWith(status entity.POStatus, lines ...entity.LineItem) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{SupplierID: "S1", Status: status, LineItems: lines}
}

func line(productID, qty string) entity.LineItem {
	return entity.LineItem{ProductID: productID, Quantity: entity.Quantity(qty)}
}

var allStatuses = []entity.POStatus{entity.POStatusPending, entity.POStatusReceived, entity.POStatusCancelled}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: orden nueva en Pending → sin mutaciones.
func TestReconcile_OrdenNuevaPending_SinMutaciones(t *testing.T) {
	plan, err := receiving.Reconcile(nil, orderWith(entity.POStatusPending, line("P1", "10"), line("P2", "5")))
	require.NoError(t, err)

	assert.Empty(t, plan.Mutations)
	assert.NotNil(t, plan.Mutations, "la lista vacía no debe ser nil")
	assert.Equal(t, entity.POStatusPending, plan.FinalStatus)
	assert.False(t, plan.Triggered())
}

// Escenario B: Pending → Received genera una mutación por línea, en orden.
func TestReconcile_PendingAReceived_UnaMutacionPorLinea(t *testing.T) {
	plan, err := receiving.Reconcile(entity.POStatusPending.Ptr(),
		orderWith(entity.POStatusReceived, line("P1", "10"), line("P2", "5")))
	require.NoError(t, err)

	assert.Equal(t, []entity.StockMutation{
		{LineIndex: 0, ProductID: "P1", QuantityDelta: 10},
		{LineIndex: 1, ProductID: "P2", QuantityDelta: 5},
	}, plan.Mutations)
	assert.Equal(t, entity.POStatusReceived, plan.FinalStatus)
}

// Escenario C: reenviar una orden ya recibida no vuelve a sumar stock.
func TestReconcile_ReceivedReenviada_Idempotente(t *testing.T) {
	plan, err := receiving.Reconcile(entity.POStatusReceived.Ptr(),
		orderWith(entity.POStatusReceived, line("P1", "10"), line("P2", "5")))
	require.NoError(t, err)

	assert.Empty(t, plan.Mutations)
	assert.Equal(t, entity.POStatusReceived, plan.FinalStatus)
}

// Escenario D: cantidad negativa al recibir → ValidationError antes de calcular mutaciones.
func TestReconcile_CantidadNegativa_ValidationError(t *testing.T) {
	plan, err := receiving.Reconcile(entity.POStatusPending.Ptr(),
		orderWith(entity.POStatusReceived, line("P1", "10"), line("P2", "-3")))
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "lineItems[1].quantity", vErr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, plan.Mutations)
}

// Una orden nueva creada directamente como Received también dispara (previous nil).
func TestReconcile_NuevaComoReceived_Dispara(t *testing.T) {
	plan, err := receiving.Reconcile(nil, orderWith(entity.POStatusReceived, line("P1", "7")))
	require.NoError(t, err)
	require.Len(t, plan.Mutations, 1)
	assert.Equal(t, int64(7), plan.Mutations[0].QuantityDelta)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// Si el estado enviado no es Received, o no cambió, no hay mutaciones.
func TestReconcile_SinTransicionAReceived_NuncaMuta(t *testing.T) {
	previous := append([]*entity.POStatus{nil}, statusPtrs(allStatuses)...)
	for _, prev := range previous {
		for _, next := range allStatuses {
			fires := next == entity.POStatusReceived && (prev == nil || *prev != entity.POStatusReceived)
			if fires {
				continue
			}
			plan, err := receiving.Reconcile(prev, orderWith(next, line("P1", "3")))
			require.NoError(t, err)
			assert.Empty(t, plan.Mutations, "prev=%v next=%s", prev, next)
			assert.Equal(t, next, plan.FinalStatus)
		}
	}
}

// Con N líneas, la transición genera exactamente N mutaciones con producto y cantidad de cada línea.
func TestReconcile_NLineas_NMutaciones(t *testing.T) {
	lines := []entity.LineItem{
		line("P1", "1"), line("P2", "22"), line("P1", "4"), line("P3", " 9 "),
	}
	for _, prev := range []*entity.POStatus{nil, entity.POStatusPending.Ptr(), entity.POStatusCancelled.Ptr()} {
		plan, err := receiving.Reconcile(prev, orderWith(entity.POStatusReceived, lines...))
		require.NoError(t, err)
		require.Len(t, plan.Mutations, len(lines))
		for i, m := range plan.Mutations {
			want, _ := receiving.ParseQuantity(lines[i].Quantity)
			assert.Equal(t, lines[i].ProductID, m.ProductID)
			assert.Equal(t, want, m.QuantityDelta)
			assert.Equal(t, i, m.LineIndex)
		}
	}
}

// El total por producto no depende del orden en que se apliquen las mutaciones.
func TestTotals_IndependienteDelOrden(t *testing.T) {
	plan, err := receiving.Reconcile(nil, orderWith(entity.POStatusReceived,
		line("P1", "10"), line("P2", "5"), line("P1", "2"), line("P3", "1")))
	require.NoError(t, err)

	forward := receiving.Totals(plan.Mutations)
	reversed := make([]entity.StockMutation, len(plan.Mutations))
	for i, m := range plan.Mutations {
		reversed[len(plan.Mutations)-1-i] = m
	}
	rotated := append(append([]entity.StockMutation{}, plan.Mutations[2:]...), plan.Mutations[:2]...)

	assert.Equal(t, map[string]int64{"P1": 12, "P2": 5, "P3": 1}, forward)
	assert.Equal(t, forward, receiving.Totals(reversed))
	assert.Equal(t, forward, receiving.Totals(rotated))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		order *entity.PurchaseOrder
		field string
	}{
		{"orden nil", nil, "order"},
		{"estado desconocido", orderWith("Shipped", line("P1", "1")), "status"},
		{"sin líneas", orderWith(entity.POStatusReceived), "lineItems"},
		{"producto vacío", orderWith(entity.POStatusReceived, line(" ", "1")), "lineItems[0].productId"},
		{"cantidad no numérica", orderWith(entity.POStatusReceived, line("P1", "diez")), "lineItems[0].quantity"},
		{"cantidad cero", orderWith(entity.POStatusReceived, line("P1", "0")), "lineItems[0].quantity"},
		{"cantidad decimal", orderWith(entity.POStatusReceived, line("P1", "2.5")), "lineItems[0].quantity"},
		{"cantidad vacía", orderWith(entity.POStatusReceived, line("P1", "")), "lineItems[0].quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := receiving.Reconcile(entity.POStatusPending.Ptr(), tc.order)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "se esperaba ValidationError, llegó %v", err)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	n, err := receiving.ParseQuantity(entity.QuantityOf(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"-3", "0", "1e3", "x", ""} {
		_, err := receiving.ParseQuantity(entity.Quantity(bad))
		assert.Error(t, err, "cantidad %q debe ser inválida", bad)
	}
}

func statusPtrs(in []entity.POStatus) []*entity.POStatus {
	out := make([]*entity.POStatus, 0, len(in))
	for _, s := range in {
		out = append(out, s.Ptr())
	}
	return out
}
