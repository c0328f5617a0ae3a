package repository

import (
	"context"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// SupplierRepository consulta de proveedores (solo lectura).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
