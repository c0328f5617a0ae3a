package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-compras/internal/application/dto"
	"github.com/jhoicas/Inventario-compras/internal/application/purchasing"
	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/pkg/logger"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc  *purchasing.SubmitUseCase
	pdf *purchasing.PDFUseCase
	log *logger.Logger
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.SubmitUseCase, pdf *purchasing.PDFUseCase, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, pdf: pdf, log: log}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Si la orden se crea directamente como Received se suma el stock de cada línea.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseOrderRequest  true  "Orden de compra"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.PartialStockUpdateResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	out, err := h.uc.Submit(c.UserContext(), "", in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar orden de compra
// @Description  Reemplazo completo. La transición a Received suma el stock una sola vez.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.PurchaseOrderRequest  true  "Orden de compra"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.PartialStockUpdateResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	out, err := h.uc.Submit(c.UserContext(), id, in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra por ID
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// RetryStock godoc
// @Summary      Reintentar ajustes de stock fallidos
// @Description  Vuelve a aplicar solo las líneas indicadas de una orden Received. No es idempotente.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.StockRetryRequest  true  "Índices de línea"
// @Success      200   {object}  dto.StockRetryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.PartialStockUpdateResponse
// @Router       /api/purchase-orders/{id}/stock-retry [post]
func (h *PurchaseOrderHandler) RetryStock(c *fiber.Ctx) error {
	var in dto.StockRetryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	out, err := h.uc.RetryStock(c.UserContext(), c.Params("id"), in.Lines)
	if err != nil {
		return h.writeError(c, err)
	}
	h.log.Info().Str("order_id", out.OrderID).Int("applied", len(out.Applied)).Str("user_id", GetUserID(c)).
		Msg("reintento de stock aplicado")
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// writeError traduce los errores del flujo de recepción a respuestas HTTP.
func (h *PurchaseOrderHandler) writeError(c *fiber.Ctx, err error) error {
	var (
		pm *purchasing.PartialMutationError
		ve *domain.ValidationError
		fe *purchasing.FetchError
		pe *purchasing.PersistError
	)
	switch {
	case errors.As(err, &pm):
		h.log.Error().Err(err).
			Str("order_id", pm.Order.ID).
			Strs("applied", pm.AppliedProductIDs()).
			Strs("failed", pm.FailedProductIDs()).
			Ints("failed_lines", pm.FailedLines()).
			Msg("orden guardada con ajustes de stock incompletos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.PartialStockUpdateResponse{
			Code:    "PARTIAL_STOCK_UPDATE",
			Message: "la orden se guardó pero algunos ajustes de stock fallaron; reintente solo las líneas fallidas",
			Order:   dto.FromPurchaseOrder(pm.Order),
			Applied: purchasing.OutcomesToResponse(pm.Applied),
			Failed:  purchasing.OutcomesToResponse(pm.Failed),
		})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: ve.Error(), Field: ve.Field})
	case errors.As(err, &fe):
		if errors.Is(err, domain.ErrNotFound) && fe.ProductID == "" {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
		}
		h.log.Warn().Err(err).Str("order_id", fe.OrderID).Msg("lectura previa fallida")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FETCH_FAILED", Message: err.Error()})
	case errors.As(err, &pe):
		h.log.Error().Err(err).Str("order_id", pe.OrderID).Msg("guardado de orden fallido")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PERSIST_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
