package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-compras/internal/application/purchasing"
	"github.com/jhoicas/Inventario-compras/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Submit    *purchasing.SubmitUseCase
	PDF       *purchasing.PDFUseCase
	Logger    *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token;
// las escrituras además rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	po := api.Group("/purchase-orders")
	h := NewPurchaseOrderHandler(deps.Submit, deps.PDF, log.Component("purchase-orders"))
	canWrite := RequireRole(RoleAdmin, RoleBodeguero)

	po.Get("/", h.List)
	po.Post("/", canWrite, h.Create)
	po.Get("/:id", h.GetByID)
	po.Put("/:id", canWrite, h.Update)
	po.Post("/:id/stock-retry", canWrite, h.RetryStock)
	po.Get("/:id/pdf", h.DownloadPDF)
}
