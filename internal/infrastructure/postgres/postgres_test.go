package postgres_test

import (
	"context"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-compras/pkg/config"
)

// Pruebas de integración: requieren DATABASE_URL apuntando a una base desechable.
// Cada prueba corre en su propia transacción y la revierte al terminar.

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido; se omiten las pruebas de PostgreSQL")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool
}

func testTx(t *testing.T, pool *pgxpool.Pool) pgx.Tx {
	t.Helper()
	tx, err := pool.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

func insertProduct(t *testing.T, q postgres.Querier, stock int64) string {
	t.Helper()
	id := uuid.New().String()
	_, err := q.Exec(context.Background(),
		`INSERT INTO products (id, sku, name, price, stock_quantity) VALUES ($1, $2, $3, $4, $5)`,
		id, "SKU-"+id[:8], "Tornillo", decimal.RequireFromString("1250.50"), stock)
	require.NoError(t, err)
	return id
}

func TestProductRepo_AdjustStock(t *testing.T) {
	tx := testTx(t, testPool(t))
	repo := postgres.NewProductRepository(tx)
	ctx := context.Background()
	id := insertProduct(t, tx, 10)

	qty, err := repo.AdjustStock(ctx, id, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), qty)

	_, err = repo.AdjustStock(ctx, id, -16)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = repo.AdjustStock(ctx, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(15), p.StockQuantity)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(p.Price))
}

// El desborde aborta la transacción, por eso va en una prueba aparte.
func TestProductRepo_AdjustStockDesborde(t *testing.T) {
	tx := testTx(t, testPool(t))
	id := insertProduct(t, tx, math.MaxInt64-1)

	_, err := postgres.NewProductRepository(tx).AdjustStock(context.Background(), id, 2)
	assert.ErrorIs(t, err, domain.ErrStockOverflow)
}

// Sin transacción compartida: los UPDATE concurrentes sobre la fila se serializan en la base.
func TestProductRepo_AdjustStockConcurrente(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	id := insertProduct(t, pool, 0)
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id) })
	repo := postgres.NewProductRepository(pool)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustStock(ctx, id, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(60), p.StockQuantity)
}

func TestPurchaseOrderRepo_ReplaceCondicionadoAlEstado(t *testing.T) {
	tx := testTx(t, testPool(t))
	repo := postgres.NewPurchaseOrderRepository(tx)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: "s-1",
		LineItems:  []entity.LineItem{{ProductID: "P1", Quantity: entity.QuantityOf(4)}},
		Status:     entity.POStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(ctx, po))

	received := po.Clone()
	received.Status = entity.POStatusReceived
	received.BatchNumber = "B-1"
	require.NoError(t, repo.Replace(ctx, received, entity.POStatusPending))
	assert.ErrorIs(t, repo.Replace(ctx, received, entity.POStatusPending), domain.ErrConflict)
	assert.ErrorIs(t, repo.Replace(ctx, &entity.PurchaseOrder{ID: "no-existe"}, entity.POStatusPending), domain.ErrNotFound)

	got, err := repo.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, got.Status)
	assert.Equal(t, "B-1", got.BatchNumber)
	assert.Equal(t, entity.QuantityOf(4), got.LineItems[0].Quantity)
	assert.True(t, now.Equal(got.CreatedAt))
}
