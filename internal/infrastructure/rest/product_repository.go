package rest

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos sobre la colección /products.
//
// El backend no ofrece incrementos atómicos: AdjustStock hace GET + PATCH con el valor
// absoluto. Un candado por producto serializa los ajustes que pasan por este proceso;
// escrituras de otros clientes entre el GET y el PATCH no se detectan.
type ProductRepo struct {
	c     *Client
	locks *keyedLocks
}

// NewProductRepository construye el adaptador.
func NewProductRepository(c *Client) *ProductRepo {
	return &ProductRepo{c: c, locks: newKeyedLocks()}
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &p)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type stockPatch struct {
	Stock int64 `json:"stock"`
}

func (r *ProductRepo) AdjustStock(ctx context.Context, productID string, delta int64) (int64, error) {
	defer r.locks.lock(productID)()

	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, domain.ErrNotFound
	}
	if delta > 0 && p.StockQuantity > math.MaxInt64-delta {
		return 0, domain.ErrStockOverflow
	}
	next := p.StockQuantity + delta
	if next < 0 {
		return 0, domain.ErrInsufficientStock
	}
	err = r.c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(productID), stockPatch{Stock: next}, nil)
	if errors.Is(err, errNotFound) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}
