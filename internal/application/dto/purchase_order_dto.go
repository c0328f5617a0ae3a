package dto

import (
	"time"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// LineItemRequest línea del formulario de orden de compra.
// quantity acepta número o texto ("10"); se valida como entero positivo.
type LineItemRequest struct {
	ProductID  string          `json:"productId"`
	Quantity   entity.Quantity `json:"quantity" swaggertype:"integer"`
	ExpiryDate *time.Time      `json:"expiryDate,omitempty"`
}

// PurchaseOrderRequest body para POST /api/purchase-orders y PUT /api/purchase-orders/:id.
// Es un reemplazo completo del registro (igual que el formulario de edición).
type PurchaseOrderRequest struct {
	SupplierID  string            `json:"supplierId"`
	LineItems   []LineItemRequest `json:"lineItems"`
	Status      entity.POStatus   `json:"status" swaggertype:"string" enums:"Pending,Received,Cancelled"`
	BatchNumber string            `json:"batchNumber,omitempty"`
}

// LineItemResponse línea de una orden persistida.
type LineItemResponse struct {
	ProductID  string     `json:"productId"`
	Quantity   int64      `json:"quantity"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string             `json:"id"`
	SupplierID  string             `json:"supplierId"`
	LineItems   []LineItemResponse `json:"lineItems"`
	Status      string             `json:"status"`
	BatchNumber string             `json:"batchNumber,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// StockRetryRequest body para POST /api/purchase-orders/:id/stock-retry.
// lines son los índices de línea que fallaron (ver PartialStockUpdateResponse.failed).
type StockRetryRequest struct {
	Lines []int `json:"lines"`
}

// StockMutationResponse resultado de un ajuste de stock por línea.
type StockMutationResponse struct {
	LineIndex     int    `json:"lineIndex"`
	ProductID     string `json:"productId"`
	QuantityDelta int64  `json:"quantityDelta"`
	NewStock      *int64 `json:"newStock,omitempty"`
	Error         string `json:"error,omitempty"`
}

// StockRetryResponse salida de un reintento exitoso.
type StockRetryResponse struct {
	OrderID string                  `json:"orderId"`
	Applied []StockMutationResponse `json:"applied"`
}

// PartialStockUpdateResponse cuerpo de error cuando la orden quedó guardada pero
// algunos ajustes de stock fallaron. Permite reintentar solo las líneas fallidas.
type PartialStockUpdateResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Order   *PurchaseOrderResponse  `json:"order"`
	Applied []StockMutationResponse `json:"applied"`
	Failed  []StockMutationResponse `json:"failed"`
}

// FromPurchaseOrder mapea la entidad a su salida JSON.
// Las cantidades ya fueron validadas al guardar; una no numérica se reporta como 0.
func FromPurchaseOrder(po *entity.PurchaseOrder) *PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	lines := make([]LineItemResponse, 0, len(po.LineItems))
	for _, li := range po.LineItems {
		qty, _ := li.Quantity.Int64()
		lines = append(lines, LineItemResponse{ProductID: li.ProductID, Quantity: qty, ExpiryDate: li.ExpiryDate})
	}
	return &PurchaseOrderResponse{
		ID:          po.ID,
		SupplierID:  po.SupplierID,
		LineItems:   lines,
		Status:      string(po.Status),
		BatchNumber: po.BatchNumber,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}
