package quotes

import (
	"time"

	"github.com/cotizamed/cotizamed/internal/pricing"
)

// CreateQuoteRequest registers a supplier quotation against an equipment
// item. Currency codes stay free-form on purpose; the normalizer decides how
// to treat them.
type CreateQuoteRequest struct {
	SupplierID   int64                `json:"supplier_id" validate:"required,gt=0"`
	Kind         pricing.Kind         `json:"kind" validate:"required,oneof=NACIONAL IMPORTADO"`
	Currency     string               `json:"currency" validate:"required,max=10"`
	UnitPrice    float64              `json:"unit_price" validate:"required,gt=0"`
	DeliveryDays int                  `json:"delivery_days" validate:"gte=0"`
	ValidUntil   *time.Time           `json:"valid_until,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	Accessories  []CreateAccessoryReq `json:"accessories" validate:"dive"`
}

// CreateAccessoryReq is one accessory line on a new quote.
type CreateAccessoryReq struct {
	Name               string   `json:"name" validate:"required,max=200"`
	Quantity           int      `json:"quantity" validate:"required,gte=1"`
	UnitPrice          *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Currency           string   `json:"currency,omitempty" validate:"max=10"`
	IncludedInProforma bool     `json:"included_in_proforma"`
}

// ComparisonRow is one quote's normalized prices inside a comparison.
type ComparisonRow struct {
	QuoteID        int64          `json:"quote_id"`
	Ref            string         `json:"ref"`
	SupplierID     int64          `json:"supplier_id"`
	SupplierName   string         `json:"supplier_name"`
	Kind           string         `json:"kind"`
	Currency       string         `json:"currency"`
	UnitPrice      float64        `json:"unit_price"`
	Selected       bool           `json:"selected"`
	Prices         pricing.Result `json:"prices"`
	DisplayPrice   string         `json:"display_price"`
	DisplayTotal   string         `json:"display_total"`
}

// Comparison is the reference-currency comparison of every quote for one
// equipment item at the item's requested quantity.
type Comparison struct {
	ItemID      int64           `json:"item_id"`
	Quantity    int             `json:"quantity"`
	Reference   string          `json:"reference_currency"`
	Rows        []ComparisonRow `json:"rows"`
	BestPrice   float64         `json:"best_price"`
	WorstPrice  float64         `json:"worst_price"`
	GeneratedAt time.Time       `json:"generated_at"`
}
