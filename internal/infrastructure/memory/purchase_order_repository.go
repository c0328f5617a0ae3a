// Package memory implementa los puertos de persistencia en memoria.
// Se usa con GATEWAY_DRIVER=memory para correr el servicio sin backend y en los tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra en memoria. Guarda copias: el caller no comparte slices.
type PurchaseOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*entity.PurchaseOrder
}

// NewPurchaseOrderRepository construye el repositorio vacío.
func NewPurchaseOrderRepository() *PurchaseOrderRepo {
	return &PurchaseOrderRepo{orders: make(map[string]*entity.PurchaseOrder)}
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orders[id].Clone(), nil
}

// Create guarda una orden nueva; domain.ErrConflict si el ID ya existe.
func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if po == nil || po.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[po.ID]; ok {
		return domain.ErrConflict
	}
	r.orders[po.ID] = po.Clone()
	return nil
}

// Replace reemplaza el registro completo si el estado guardado sigue siendo expected.
func (r *PurchaseOrderRepo) Replace(_ context.Context, po *entity.PurchaseOrder, expected entity.POStatus) error {
	if po == nil || po.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Status != expected {
		return domain.ErrConflict
	}
	r.orders[po.ID] = po.Clone()
	return nil
}

// List ordena por CreatedAt descendente (ID como desempate).
func (r *PurchaseOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.mu.RLock()
	all := make([]*entity.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		all = append(all, po.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*entity.PurchaseOrder{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
