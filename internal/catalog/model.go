// Package catalog manages suppliers and the equipment they offer.
package catalog

import "time"

// Supplier is a vendor that submits quotations.
type Supplier struct {
	ID        int64     `json:"id"`
	RUC       string    `json:"ruc"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one catalog entry: a piece of equipment a supplier offers, with
// its list price in the supplier's own currency.
type Item struct {
	ID            int64     `json:"id"`
	SupplierID    int64     `json:"supplier_id"`
	EquipmentCode string    `json:"equipment_code"`
	Name          string    `json:"name"`
	GenericGroup  string    `json:"generic_group"`
	Currency      string    `json:"currency"`
	ListPrice     float64   `json:"list_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
