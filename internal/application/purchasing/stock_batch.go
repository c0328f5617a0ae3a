package purchasing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

// applyMutations ejecuta el lote de ajustes como llamadas independientes, sin orden entre
// líneas y con a lo sumo maxParallel en vuelo. Un fallo no detiene al resto: cada
// resultado queda registrado por línea. applied y failed conservan el orden de línea.
func applyMutations(
	ctx context.Context,
	products repository.ProductRepository,
	mutations []entity.StockMutation,
	maxParallel int,
) (applied, failed []MutationOutcome) {
	outcomes := make([]MutationOutcome, len(mutations))

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, m := range mutations {
		i, m := i, m
		g.Go(func() error {
			newStock, err := products.AdjustStock(ctx, m.ProductID, m.QuantityDelta)
			outcomes[i] = MutationOutcome{Mutation: m, NewStock: newStock, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		} else {
			applied = append(applied, o)
		}
	}
	return applied, failed
}
