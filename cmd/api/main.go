// @title        Inventario Compras API
// @version      1.0
// @description  Órdenes de compra con conciliación de stock al recibir mercancía.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Inventario-compras/docs"
	"github.com/jhoicas/Inventario-compras/internal/application/purchasing"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-compras/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/Inventario-compras/internal/interfaces/http"
	"github.com/jhoicas/Inventario-compras/pkg/config"
	"github.com/jhoicas/Inventario-compras/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("gateway", cfg.Gateway.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	gw, err := openGateway(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar gateway")
	}
	defer gw.close()

	m := metrics.New("compras")

	submitUC := purchasing.NewSubmitUseCase(gw.orders, gw.products, purchasing.Config{
		MaxParallel:    cfg.Receiving.MaxParallel,
		AllowReopen:    cfg.Receiving.AllowReopen,
		VerifyProducts: cfg.Receiving.VerifyProducts,
		Observer:       m,
	})
	pdfUC := purchasing.NewPDFUseCase(gw.orders, gw.products, gw.suppliers, infrapdf.NewMarotoPOGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.Metrics(m))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "gateway": cfg.Gateway.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Submit:    submitUC,
		PDF:       pdfUC,
		Logger:    log,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
