package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// POStatus estado de una orden de compra.
type POStatus string

// Estados de la orden de compra (valores exactos del contrato JSON).
const (
	POStatusPending   POStatus = "Pending"
	POStatusReceived  POStatus = "Received"
	POStatusCancelled POStatus = "Cancelled"
)

// IsValid indica si el estado es uno de los conocidos.
func (s POStatus) IsValid() bool {
	switch s {
	case POStatusPending, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// Ptr devuelve un puntero al estado; útil para "estado anterior" opcional.
func (s POStatus) Ptr() *POStatus { return &s }

// Quantity cantidad tal como llega del formulario: número JSON o texto numérico ("10").
// Se interpreta como entero positivo en el motor de recepción.
type Quantity string

// QuantityOf construye una cantidad a partir de un entero.
func QuantityOf(n int64) Quantity { return Quantity(strconv.FormatInt(n, 10)) }

// Int64 interpreta la cantidad como entero (sin validar el signo).
func (q Quantity) Int64() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(q)), 10, 64)
}

// UnmarshalJSON acepta 10, "10" o null.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

// MarshalJSON emite un número cuando la cantidad es entera; si no, el texto original.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(q), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(q))
}

// LineItem una línea de la orden: producto + cantidad.
type LineItem struct {
	ProductID  string     `json:"productId"`
	Quantity   Quantity   `json:"quantity"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"` // vencimiento del lote recibido (opcional)
}

// PurchaseOrder orden de compra a un proveedor.
// CreatedAt se fija una sola vez al crear; BatchNumber se asigna al pasar a Received.
type PurchaseOrder struct {
	ID          string     `json:"id,omitempty"`
	SupplierID  string     `json:"supplierId"`
	LineItems   []LineItem `json:"lineItems"`
	Status      POStatus   `json:"status"`
	BatchNumber string     `json:"batchNumber,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone copia la orden (incluye las líneas) para no compartir slices con el caller.
func (po *PurchaseOrder) Clone() *PurchaseOrder {
	if po == nil {
		return nil
	}
	c := *po
	c.LineItems = make([]LineItem, len(po.LineItems))
	copy(c.LineItems, po.LineItems)
	return &c
}
