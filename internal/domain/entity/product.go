package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del inventario. StockQuantity nunca es negativo y solo cambia
// mediante ajustes relativos (AdjustStock), nunca por sobrescritura desde una orden.
type Product struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
