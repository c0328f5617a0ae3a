package entity

// Supplier proveedor. Solo consulta: las órdenes lo referencian por ID.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}
