package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/rest"
	"github.com/jhoicas/Inventario-compras/pkg/config"
	"github.com/jhoicas/Inventario-compras/pkg/logger"
)

// gateway agrupa los repositorios del backend elegido.
type gateway struct {
	orders    repository.PurchaseOrderRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	close     func()
}

// openGateway construye los adaptadores según GATEWAY_DRIVER.
func openGateway(ctx context.Context, cfg *config.Config, log *logger.Logger) (*gateway, error) {
	switch cfg.Gateway.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema aplicado")
		}
		return &gateway{
			orders:    postgres.NewPurchaseOrderRepository(pool),
			products:  postgres.NewProductRepository(pool),
			suppliers: postgres.NewSupplierRepository(pool),
			close:     pool.Close,
		}, nil

	case config.DriverREST:
		client := rest.NewClient(cfg.Gateway.RESTBaseURL, cfg.Gateway.RESTTimeout)
		log.Info().Str("base_url", cfg.Gateway.RESTBaseURL).Msg("gateway REST")
		return &gateway{
			orders:    rest.NewPurchaseOrderRepository(client),
			products:  rest.NewProductRepository(client),
			suppliers: rest.NewSupplierRepository(client),
			close:     func() {},
		}, nil

	default:
		log.Warn().Msg("gateway en memoria: los datos se pierden al reiniciar")
		seed := &memory.Seed{}
		if cfg.Gateway.MemorySeed != "" {
			var err error
			if seed, err = memory.LoadSeed(cfg.Gateway.MemorySeed); err != nil {
				return nil, err
			}
			log.Info().Str("seed", cfg.Gateway.MemorySeed).
				Int("products", len(seed.Products)).
				Int("suppliers", len(seed.Suppliers)).
				Msg("datos iniciales cargados")
		}
		orders, products, suppliers, err := seed.Repositories()
		if err != nil {
			return nil, err
		}
		return &gateway{orders: orders, products: products, suppliers: suppliers, close: func() {}}, nil
	}
}
