package repository

import (
	"context"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// ProductRepository define el puerto de consulta y ajuste de stock de productos (DIP).
type ProductRepository interface {
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// AdjustStock suma delta (con signo) al stock y devuelve la cantidad resultante.
	// Es un ajuste relativo, nunca una sobrescritura absoluta.
	// domain.ErrNotFound si el producto no existe; domain.ErrInsufficientStock si quedaría negativo.
	AdjustStock(ctx context.Context, productID string, delta int64) (int64, error)
}
