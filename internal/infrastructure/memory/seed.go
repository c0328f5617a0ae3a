package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// Seed datos iniciales en el formato de un db.json de json-server.
type Seed struct {
	Products       []entity.Product        `json:"products"`
	Suppliers      []entity.Supplier       `json:"suppliers"`
	PurchaseOrders []*entity.PurchaseOrder `json:"purchaseOrders"`
}

// LoadSeed lee un db.json. Las claves desconocidas se ignoran.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: leer %s: %w", path, err)
	}
	var s Seed
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("seed: decodificar %s: %w", path, err)
	}
	return &s, nil
}

// Repositories construye los tres repositorios con el seed cargado.
func (s *Seed) Repositories() (*PurchaseOrderRepo, *ProductRepo, *SupplierRepo, error) {
	orders := NewPurchaseOrderRepository()
	for _, po := range s.PurchaseOrders {
		if err := orders.Create(context.Background(), po); err != nil {
			return nil, nil, nil, fmt.Errorf("seed: orden %q: %w", po.ID, err)
		}
	}
	return orders, NewProductRepository(s.Products...), NewSupplierRepository(s.Suppliers...), nil
}
