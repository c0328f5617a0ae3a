package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores en memoria (solo lectura tras la carga).
type SupplierRepo struct {
	mu        sync.RWMutex
	suppliers map[string]entity.Supplier
}

// NewSupplierRepository construye el repositorio con proveedores iniciales opcionales.
func NewSupplierRepository(seed ...entity.Supplier) *SupplierRepo {
	r := &SupplierRepo{suppliers: make(map[string]entity.Supplier, len(seed))}
	for _, s := range seed {
		r.suppliers[s.ID] = s
	}
	return r
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
