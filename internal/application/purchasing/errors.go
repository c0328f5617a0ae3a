package purchasing

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// FetchError falló la lectura previa (orden anterior o producto) al editar.
// Es seguro: no se alcanzó a modificar nada.
type FetchError struct {
	OrderID   string
	ProductID string // vacío si falló la lectura de la orden
	Err       error
}

func (e *FetchError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("consultar producto %s (orden %s): %v", e.ProductID, e.OrderID, e.Err)
	}
	return fmt.Sprintf("consultar orden %s: %v", e.OrderID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError falló el guardado de la orden (paso A). Ningún stock fue modificado.
type PersistError struct {
	OrderID string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("guardar orden %s: %v", e.OrderID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// MutationOutcome resultado de aplicar un ajuste de stock de una línea.
type MutationOutcome struct {
	Mutation entity.StockMutation
	NewStock int64 // stock resultante; solo válido si Err == nil
	Err      error
}

// PartialMutationError la orden quedó persistida como Received pero uno o más ajustes
// de stock fallaron. Es el único estado inconsistente del flujo: nombra exactamente
// las líneas aplicadas y las fallidas para conciliar o reintentar solo las fallidas.
// Nunca se reintenta automáticamente.
type PartialMutationError struct {
	Order   *entity.PurchaseOrder
	Applied []MutationOutcome
	Failed  []MutationOutcome
	causes  error
}

func newPartialMutationError(order *entity.PurchaseOrder, applied, failed []MutationOutcome) *PartialMutationError {
	var causes error
	for _, f := range failed {
		causes = multierr.Append(causes, fmt.Errorf("línea %d (producto %s): %w",
			f.Mutation.LineIndex, f.Mutation.ProductID, f.Err))
	}
	return &PartialMutationError{Order: order, Applied: applied, Failed: failed, causes: causes}
}

func (e *PartialMutationError) Error() string {
	total := len(e.Applied) + len(e.Failed)
	return fmt.Sprintf("orden %s guardada como %s pero fallaron %d de %d ajustes de stock (productos %s): %v",
		e.Order.ID, e.Order.Status, len(e.Failed), total,
		strings.Join(e.FailedProductIDs(), ", "), e.causes)
}

// Unwrap expone cada causa individual para errors.Is / errors.As.
func (e *PartialMutationError) Unwrap() []error { return multierr.Errors(e.causes) }

// FailedLines índices de línea cuyos ajustes fallaron, en orden de línea.
func (e *PartialMutationError) FailedLines() []int {
	out := make([]int, 0, len(e.Failed))
	for _, f := range e.Failed {
		out = append(out, f.Mutation.LineIndex)
	}
	return out
}

// FailedProductIDs productos cuyos ajustes fallaron, en orden de línea.
func (e *PartialMutationError) FailedProductIDs() []string {
	return productIDs(e.Failed)
}

// AppliedProductIDs productos cuyos ajustes sí se aplicaron, en orden de línea.
func (e *PartialMutationError) AppliedProductIDs() []string {
	return productIDs(e.Applied)
}

func productIDs(outcomes []MutationOutcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.Mutation.ProductID)
	}
	return out
}
