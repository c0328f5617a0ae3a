package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre la colección /purchaseOrders.
type PurchaseOrderRepo struct {
	c     *Client
	locks *keyedLocks
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(c *Client) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{c: c, locks: newKeyedLocks()}
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.c.do(ctx, http.MethodGet, "/purchaseOrders/"+url.PathEscape(id), nil, &po)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if err := r.c.do(ctx, http.MethodPost, "/purchaseOrders", po, nil); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusConflict {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// Replace relee la orden y solo hace PUT si su estado sigue siendo expected.
// El backend no tiene escrituras condicionales: lectura y PUT van bajo un candado por
// orden, que cubre los guardados de este proceso.
func (r *PurchaseOrderRepo) Replace(ctx context.Context, po *entity.PurchaseOrder, expected entity.POStatus) error {
	defer r.locks.lock(po.ID)()

	current, err := r.GetByID(ctx, po.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if current.Status != expected {
		return domain.ErrConflict
	}
	err = r.c.do(ctx, http.MethodPut, "/purchaseOrders/"+url.PathEscape(po.ID), po, nil)
	if errors.Is(err, errNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// List descarga la colección y pagina localmente; los backends de colecciones
// no coinciden en sus parámetros de orden y paginación.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var all []*entity.PurchaseOrder
	if err := r.c.do(ctx, http.MethodGet, "/purchaseOrders", nil, &all); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*entity.PurchaseOrder{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
