package purchasing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

// PDFUseCase genera el PDF imprimible de una orden de compra para enviar al proveedor.
type PDFUseCase struct {
	orders    repository.PurchaseOrderRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	generator PDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{orders: orders, products: products, suppliers: suppliers, generator: generator}
}

// Download carga la orden, enriquece las líneas con nombre y precio del producto y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
func (uc *PDFUseCase) Download(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden ───────────────────────────────────────────────────────
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Proveedor (si no existe se imprime solo el ID) ─────────────────────
	supplier, err := uc.suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	if supplier == nil {
		supplier = &entity.Supplier{ID: order.SupplierID, Name: "Proveedor " + order.SupplierID}
	}

	// ── 3. Líneas + precios ───────────────────────────────────────────────────
	lines := make([]LineForPDF, 0, len(order.LineItems))
	total := decimal.Zero
	for _, li := range order.LineItems {
		qty, _ := li.Quantity.Int64()
		l := LineForPDF{
			ProductID:   li.ProductID,
			ProductName: "Producto " + li.ProductID, // fallback
			Quantity:    qty,
			UnitPrice:   decimal.Zero,
		}
		if p, pErr := uc.products.GetByID(ctx, li.ProductID); pErr == nil && p != nil {
			l.ProductName = p.Name
			l.SKU = p.SKU
			l.UnitPrice = p.Price
		}
		l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(qty))
		total = total.Add(l.Subtotal)
		lines = append(lines, l)
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GeneratePurchaseOrderPDF(ctx, order, supplier, lines, total)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden_compra_%s.pdf", order.ID), nil
}
