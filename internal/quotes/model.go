// Package quotes manages supplier quotations for project equipment items
// and the commercial comparison workflow.
package quotes

import (
	"time"

	"github.com/cotizamed/cotizamed/internal/pricing"
)

// Quote is a supplier's offer for one project equipment item.
type Quote struct {
	ID           int64        `json:"id"`
	Ref          string       `json:"ref"`
	ItemID       int64        `json:"item_id"`
	SupplierID   int64        `json:"supplier_id"`
	SupplierName string       `json:"supplier_name,omitempty"`
	Kind         pricing.Kind `json:"kind"`
	Currency     string       `json:"currency"`
	UnitPrice    float64      `json:"unit_price"`
	DeliveryDays int          `json:"delivery_days"`
	ValidUntil   *time.Time   `json:"valid_until,omitempty"`
	Selected     bool         `json:"selected"`
	Notes        *string      `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Accessories  []Accessory  `json:"accessories,omitempty"`
}

// Accessory is a line item owned by one quote. A nil unit price means the
// supplier did not price it; an empty currency inherits the quote's.
type Accessory struct {
	ID                 int64    `json:"id"`
	QuoteID            int64    `json:"quote_id"`
	Name               string   `json:"name"`
	Quantity           int      `json:"quantity"`
	UnitPrice          *float64 `json:"unit_price,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	IncludedInProforma bool     `json:"included_in_proforma"`
}

// Snapshot converts the quote into the calculator's input shape.
func (q Quote) Snapshot() pricing.Quotation {
	accessories := make([]pricing.Accessory, 0, len(q.Accessories))
	for _, acc := range q.Accessories {
		accessories = append(accessories, pricing.Accessory{
			Name:               acc.Name,
			Quantity:           float64(acc.Quantity),
			UnitPrice:          acc.UnitPrice,
			Currency:           acc.Currency,
			IncludedInProforma: acc.IncludedInProforma,
		})
	}
	return pricing.Quotation{
		ID:          q.ID,
		UnitPrice:   q.UnitPrice,
		Currency:    q.Currency,
		Kind:        q.Kind,
		Accessories: accessories,
	}
}
