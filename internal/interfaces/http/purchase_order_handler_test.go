package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-compras/internal/application/dto"
	"github.com/jhoicas/Inventario-compras/internal/application/purchasing"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-compras/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Inventario-compras/internal/interfaces/http"
	"github.com/jhoicas/Inventario-compras/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// switchableProducts falla los ajustes de los productos en failOn.
type switchableProducts struct {
	*memory.ProductRepo
	failOn map[string]bool
}

func (s *switchableProducts) AdjustStock(ctx context.Context, productID string, delta int64) (int64, error) {
	if s.failOn[productID] {
		return 0, errors.New("backend de productos no disponible")
	}
	return s.ProductRepo.AdjustStock(ctx, productID, delta)
}

type poApp struct {
	app      *fiber.App
	products *switchableProducts
}

func newPOApp(t *testing.T) *poApp {
	t.Helper()
	orders := memory.NewPurchaseOrderRepository()
	products := &switchableProducts{
		ProductRepo: memory.NewProductRepository(
			entity.Product{ID: "P1", Name: "Tornillo", Price: decimal.NewFromInt(100), StockQuantity: 10},
			entity.Product{ID: "P2", Name: "Tuerca", Price: decimal.NewFromInt(50)},
		),
		failOn: map[string]bool{},
	}
	suppliers := memory.NewSupplierRepository(entity.Supplier{ID: "s-1", Name: "Ferretería Central"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Submit:    purchasing.NewSubmitUseCase(orders, products, purchasing.Config{}),
		PDF:       purchasing.NewPDFUseCase(orders, products, suppliers, infrapdf.NewMarotoPOGenerator("Bodega")),
		Logger:    logger.Nop(),
		JWTSecret: testJWTSecret,
	})
	return &poApp{app: app, products: products}
}

func (a *poApp) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *poApp) stock(t *testing.T, id string) int64 {
	t.Helper()
	p, err := a.products.ProductRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func orderBody(status string, lines ...map[string]any) map[string]any {
	return map[string]any{"supplierId": "s-1", "status": status, "lineItems": lines}
}

func lineBody(productID string, qty any) map[string]any {
	return map[string]any{"productId": productID, "quantity": qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrders_CrearYRecibir(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "bodeguero",
		orderBody("Pending", lineBody("P1", 5), lineBody("P2", "3")))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, int64(3), created.LineItems[1].Quantity)

	resp = a.do(t, http.MethodPut, "/api/purchase-orders/"+created.ID, "bodeguero",
		orderBody("Received", lineBody("P1", 5), lineBody("P2", 3)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	received := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, "Received", received.Status)
	assert.NotEmpty(t, received.BatchNumber)

	assert.Equal(t, int64(15), a.stock(t, "P1"))
	assert.Equal(t, int64(3), a.stock(t, "P2"))

	resp = a.do(t, http.MethodGet, "/api/purchase-orders/"+created.ID, "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, "Received", got.Status)

	resp = a.do(t, http.MethodGet, "/api/purchase-orders?limit=5", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.PurchaseOrderListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)
}

func TestPurchaseOrders_ValidacionDevuelve400ConCampo(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin",
		orderBody("Received", lineBody("P1", "2.5")))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "lineItems[0].quantity", body.Field)
	assert.Equal(t, int64(10), a.stock(t, "P1"))
}

func TestPurchaseOrders_CuerpoInvalido(t *testing.T) {
	a := newPOApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/purchase-orders", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPurchaseOrders_ActualizarInexistenteDevuelve404(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPut, "/api/purchase-orders/nope", "admin", orderBody("Received", lineBody("P1", 1)))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = a.do(t, http.MethodGet, "/api/purchase-orders/nope", "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseOrders_VendedorNoEscribe(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "vendedor", orderBody("Pending", lineBody("P1", 1)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPurchaseOrders_SinToken(t *testing.T) {
	a := newPOApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/purchase-orders", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo parcial y reintento
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrders_FalloParcialYReintento(t *testing.T) {
	a := newPOApp(t)
	a.products.failOn["P2"] = true

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin",
		orderBody("Received", lineBody("P1", 5), lineBody("P2", 3)))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	partial := decode[dto.PartialStockUpdateResponse](t, resp)
	assert.Equal(t, "PARTIAL_STOCK_UPDATE", partial.Code)
	require.NotNil(t, partial.Order)
	assert.Equal(t, "Received", partial.Order.Status)
	require.Len(t, partial.Applied, 1)
	require.Len(t, partial.Failed, 1)
	assert.Equal(t, "P1", partial.Applied[0].ProductID)
	assert.Equal(t, "P2", partial.Failed[0].ProductID)
	assert.Equal(t, 1, partial.Failed[0].LineIndex)
	assert.NotEmpty(t, partial.Failed[0].Error)
	assert.Equal(t, int64(15), a.stock(t, "P1"))

	// Reintentar con el mismo fallo sigue devolviendo el estado parcial.
	retryPath := "/api/purchase-orders/" + partial.Order.ID + "/stock-retry"
	resp = a.do(t, http.MethodPost, retryPath, "admin", dto.StockRetryRequest{Lines: []int{1}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()

	a.products.failOn["P2"] = false
	resp = a.do(t, http.MethodPost, retryPath, "admin", dto.StockRetryRequest{Lines: []int{1}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	retried := decode[dto.StockRetryResponse](t, resp)
	require.Len(t, retried.Applied, 1)
	assert.Equal(t, "P2", retried.Applied[0].ProductID)

	assert.Equal(t, int64(15), a.stock(t, "P1"))
	assert.Equal(t, int64(3), a.stock(t, "P2"))
}

func TestPurchaseOrders_ReintentoSobrePendienteDevuelve409(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin", orderBody("Pending", lineBody("P1", 1)))
	created := decode[dto.PurchaseOrderResponse](t, resp)

	resp = a.do(t, http.MethodPost, "/api/purchase-orders/"+created.ID+"/stock-retry", "admin",
		dto.StockRetryRequest{Lines: []int{0}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPurchaseOrders_RecibidaNoVuelveAPendiente(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin", orderBody("Received", lineBody("P1", 1)))
	created := decode[dto.PurchaseOrderResponse](t, resp)

	resp = a.do(t, http.MethodPut, "/api/purchase-orders/"+created.ID, "admin", orderBody("Pending", lineBody("P1", 1)))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "status", decode[dto.ErrorResponse](t, resp).Field)
}

func TestPurchaseOrders_RecibidaNoCambiaLineas(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin", orderBody("Received", lineBody("P1", 1)))
	created := decode[dto.PurchaseOrderResponse](t, resp)

	resp = a.do(t, http.MethodPut, "/api/purchase-orders/"+created.ID, "admin", orderBody("Received", lineBody("P2", 40)))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "lineItems[0]", decode[dto.ErrorResponse](t, resp).Field)
	assert.Equal(t, int64(11), a.stock(t, "P1"))
	assert.Equal(t, int64(0), a.stock(t, "P2"))
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrders_DescargarPDF(t *testing.T) {
	a := newPOApp(t)

	resp := a.do(t, http.MethodPost, "/api/purchase-orders", "admin", orderBody("Pending", lineBody("P1", 2)))
	created := decode[dto.PurchaseOrderResponse](t, resp)

	resp = a.do(t, http.MethodGet, "/api/purchase-orders/"+created.ID+"/pdf", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "orden_compra_"+created.ID+".pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = a.do(t, http.MethodGet, "/api/purchase-orders/nope/pdf", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
