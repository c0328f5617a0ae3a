package purchasing

import (
	"errors"

	"github.com/jhoicas/Inventario-compras/internal/domain"
)

// Resultados de Submit tal como los ve Observer.
const (
	OutcomeSaved      = "saved"    // orden guardada sin recepción
	OutcomeReceived   = "received" // orden guardada y stock aplicado completo
	OutcomeValidation = "validation"
	OutcomeFetch      = "fetch_error"
	OutcomePersist    = "persist_error"
	OutcomeConflict   = "conflict" // la orden cambió de estado entre la lectura y el guardado
	OutcomePartial    = "partial_stock_update"
	OutcomeOther      = "error"
)

// Observer recibe eventos del flujo de recepción (métricas). Debe ser seguro para uso concurrente.
type Observer interface {
	Submitted(outcome string)
	StockAdjusted(applied, failed int)
}

type nopObserver struct{}

func (nopObserver) Submitted(string)       {}
func (nopObserver) StockAdjusted(int, int) {}

// Outcome clasifica el error devuelto por Submit.
func Outcome(err error, received bool) string {
	var (
		ve *domain.ValidationError
		fe *FetchError
		pe *PersistError
		pm *PartialMutationError
	)
	switch {
	case err == nil && received:
		return OutcomeReceived
	case err == nil:
		return OutcomeSaved
	case errors.As(err, &pm):
		return OutcomePartial
	case errors.As(err, &ve):
		return OutcomeValidation
	case errors.As(err, &fe):
		return OutcomeFetch
	case errors.As(err, &pe):
		return OutcomePersist
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeOther
	}
}
