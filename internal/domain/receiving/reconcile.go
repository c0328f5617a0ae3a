// Package receiving contiene el motor de conciliación de recepciones de órdenes de compra.
// Es lógica de dominio pura: no hace I/O ni consulta el reloj.
package receiving

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// Plan resultado de una conciliación: ajustes de stock a aplicar y estado final de la orden.
type Plan struct {
	Mutations   []entity.StockMutation
	FinalStatus entity.POStatus
}

// Triggered indica si el plan exige ajustar stock.
func (p Plan) Triggered() bool { return len(p.Mutations) > 0 }

// ReceiptTriggered es la guarda de transición: solo dispara al entrar a Received.
// previous es nil para una orden nueva.
func ReceiptTriggered(previous *entity.POStatus, next entity.POStatus) bool {
	if next != entity.POStatusReceived {
		return false
	}
	return previous == nil || *previous != entity.POStatusReceived
}

// Reconcile decide qué ajustes de stock produce guardar order cuando su último estado
// persistido era previous. Una mutación por línea (delta = +cantidad), en el orden de las líneas.
// El estado final es siempre order.Status; el motor no veta transiciones.
func Reconcile(previous *entity.POStatus, order *entity.PurchaseOrder) (Plan, error) {
	if order == nil {
		return Plan{}, domain.NewValidationError("order", "orden vacía")
	}
	if !order.Status.IsValid() {
		return Plan{}, domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", order.Status))
	}
	plan := Plan{Mutations: []entity.StockMutation{}, FinalStatus: order.Status}
	if !ReceiptTriggered(previous, order.Status) {
		return plan, nil
	}
	if len(order.LineItems) == 0 {
		return Plan{}, domain.NewValidationError("lineItems", "la orden no tiene líneas")
	}
	mutations := make([]entity.StockMutation, 0, len(order.LineItems))
	for i, item := range order.LineItems {
		if strings.TrimSpace(item.ProductID) == "" {
			return Plan{}, domain.NewValidationError(fmt.Sprintf("lineItems[%d].productId", i), "producto requerido")
		}
		qty, err := ParseQuantity(item.Quantity)
		if err != nil {
			return Plan{}, domain.NewValidationError(fmt.Sprintf("lineItems[%d].quantity", i), err.Error())
		}
		mutations = append(mutations, entity.StockMutation{
			LineIndex:     i,
			ProductID:     item.ProductID,
			QuantityDelta: qty,
		})
	}
	plan.Mutations = mutations
	return plan, nil
}

// ParseQuantity interpreta la cantidad como entero estrictamente positivo.
// "10.5", "abc", "0" y "-3" son inválidos.
func ParseQuantity(q entity.Quantity) (int64, error) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return 0, fmt.Errorf("cantidad requerida")
	}
	n, err := q.Int64()
	if err != nil {
		return 0, fmt.Errorf("cantidad no numérica %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("cantidad debe ser positiva, llegó %d", n)
	}
	return n, nil
}

// Totals agrega el delta neto por producto. El resultado no depende del orden de las mutaciones.
func Totals(mutations []entity.StockMutation) map[string]int64 {
	out := make(map[string]int64, len(mutations))
	for _, m := range mutations {
		out[m.ProductID] += m.QuantityDelta
	}
	return out
}
