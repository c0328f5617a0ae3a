package memory

import (
	"context"
	"math"
	"sync"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. AdjustStock es atómico bajo el mutex.
type ProductRepo struct {
	mu       sync.Mutex
	products map[string]entity.Product
}

// NewProductRepository construye el repositorio con productos iniciales opcionales.
func NewProductRepository(seed ...entity.Product) *ProductRepo {
	r := &ProductRepo{products: make(map[string]entity.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

// Put inserta o reemplaza un producto (carga de datos iniciales).
func (r *ProductRepo) Put(p entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// AdjustStock suma delta al stock; no permite dejarlo negativo ni desbordar int64.
func (r *ProductRepo) AdjustStock(_ context.Context, productID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if delta > 0 && p.StockQuantity > math.MaxInt64-delta {
		return p.StockQuantity, domain.ErrStockOverflow
	}
	if p.StockQuantity+delta < 0 {
		return p.StockQuantity, domain.ErrInsufficientStock
	}
	p.StockQuantity += delta
	r.products[productID] = p
	return p.StockQuantity, nil
}
