package repository

import (
	"context"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// Cada método es una sola llamada remota, sin reintentos ni caché.
type PurchaseOrderRepository interface {
	// GetByID devuelve (nil, nil) si la orden no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// Replace reemplaza el registro completo solo si su estado guardado sigue siendo expected.
	// domain.ErrNotFound si no existe; domain.ErrConflict si el estado cambió.
	Replace(ctx context.Context, po *entity.PurchaseOrder, expected entity.POStatus) error
	// List ordena por CreatedAt descendente.
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
}
