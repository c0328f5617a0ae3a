package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores sobre la colección /suppliers.
type SupplierRepo struct {
	c *Client
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(c *Client) *SupplierRepo {
	return &SupplierRepo{c: c}
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.c.do(ctx, http.MethodGet, "/suppliers/"+url.PathEscape(id), nil, &s)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
