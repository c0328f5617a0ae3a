package purchasing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
)

// LineForPDF línea de la orden enriquecida con datos del producto para el PDF.
type LineForPDF struct {
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// PDFGenerator genera el documento PDF de una orden de compra.
type PDFGenerator interface {
	GeneratePurchaseOrderPDF(
		ctx context.Context,
		order *entity.PurchaseOrder,
		supplier *entity.Supplier,
		lines []LineForPDF,
		total decimal.Decimal,
	) ([]byte, error)
}
