package memory_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/memory"
)

func TestPurchaseOrderRepo_GuardaCopias(t *testing.T) {
	repo := memory.NewPurchaseOrderRepository()
	ctx := context.Background()
	po := &entity.PurchaseOrder{
		ID: "po-1", SupplierID: "s-1", Status: entity.POStatusPending,
		LineItems: []entity.LineItem{{ProductID: "P1", Quantity: entity.QuantityOf(1)}},
	}
	require.NoError(t, repo.Create(ctx, po))

	po.LineItems[0].ProductID = "mutado"
	got, err := repo.GetByID(ctx, "po-1")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.LineItems[0].ProductID)

	got.Status = entity.POStatusCancelled
	again, _ := repo.GetByID(ctx, "po-1")
	assert.Equal(t, entity.POStatusPending, again.Status)
}

func TestPurchaseOrderRepo_Errores(t *testing.T) {
	repo := memory.NewPurchaseOrderRepository()
	ctx := context.Background()

	assert.ErrorIs(t, repo.Create(ctx, &entity.PurchaseOrder{}), domain.ErrInvalidInput)
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "a"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "a"}), domain.ErrConflict)
	assert.ErrorIs(t, repo.Replace(ctx, &entity.PurchaseOrder{ID: "b"}, entity.POStatusPending), domain.ErrNotFound)

	got, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPurchaseOrderRepo_ReplaceCondicionadoAlEstado(t *testing.T) {
	repo := memory.NewPurchaseOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "po-1", Status: entity.POStatusPending}))

	received := &entity.PurchaseOrder{ID: "po-1", Status: entity.POStatusReceived}
	require.NoError(t, repo.Replace(ctx, received, entity.POStatusPending))

	// Un segundo guardado que también leyó Pending llega tarde.
	assert.ErrorIs(t, repo.Replace(ctx, received, entity.POStatusPending), domain.ErrConflict)

	got, _ := repo.GetByID(ctx, "po-1")
	assert.Equal(t, entity.POStatusReceived, got.Status)
}

func TestPurchaseOrderRepo_ListMasRecientesPrimero(t *testing.T) {
	repo := memory.NewPurchaseOrderRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	list, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestProductRepo_AdjustStock(t *testing.T) {
	repo := memory.NewProductRepository(entity.Product{ID: "P1", StockQuantity: 2})
	ctx := context.Background()

	qty, err := repo.AdjustStock(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)

	_, err = repo.AdjustStock(ctx, "P1", -6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = repo.AdjustStock(ctx, "P404", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, _ := repo.GetByID(ctx, "P1")
	assert.Equal(t, int64(5), p.StockQuantity)
}

func TestProductRepo_AdjustStockDesborde(t *testing.T) {
	repo := memory.NewProductRepository(entity.Product{ID: "P1", StockQuantity: math.MaxInt64 - 1})
	ctx := context.Background()

	_, err := repo.AdjustStock(ctx, "P1", 2)
	assert.ErrorIs(t, err, domain.ErrStockOverflow)

	qty, err := repo.AdjustStock(ctx, "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), qty)
}

func TestProductRepo_AdjustStockConcurrente(t *testing.T) {
	repo := memory.NewProductRepository(entity.Product{ID: "P1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AdjustStock(context.Background(), "P1", 2)
		}()
	}
	wg.Wait()

	p, _ := repo.GetByID(context.Background(), "P1")
	assert.Equal(t, int64(100), p.StockQuantity)
}
