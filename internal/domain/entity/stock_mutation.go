package entity

// StockMutation ajuste relativo de stock derivado de una recepción. No se persiste.
// LineIndex referencia la línea de la orden que lo originó.
type StockMutation struct {
	LineIndex     int    `json:"lineIndex"`
	ProductID     string `json:"productId"`
	QuantityDelta int64  `json:"quantityDelta"`
}
