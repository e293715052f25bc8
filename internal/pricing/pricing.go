// Package pricing turns multi-currency supplier quotations and their
// accessory line items into comparable reference-currency prices.
package pricing

import (
	"errors"

	"github.com/cotizamed/cotizamed/internal/currency"
)

// Kind classifies a quotation by sourcing origin. It only affects display
// labels, never price math.
type Kind string

const (
	KindDomestic Kind = "NACIONAL"
	KindImported Kind = "IMPORTADO"
)

// Accessory is a line item owned by one quotation. A nil UnitPrice means the
// price is unknown. An empty Currency inherits the owning quotation's
// currency, falling back to USD as a last resort.
type Accessory struct {
	Name               string
	Quantity           float64
	UnitPrice          *float64
	Currency           string
	IncludedInProforma bool
}

// Quotation is the snapshot the calculator consumes. Accessories travel
// embedded; ownership and persistence live elsewhere.
type Quotation struct {
	ID          int64
	UnitPrice   float64
	Currency    string
	Kind        Kind
	Accessories []Accessory
}

// Result carries the derived prices, all in the reference currency. It is
// computed on demand and never persisted.
type Result struct {
	BasePrice          float64 `json:"base_price"`
	AccessorySurcharge float64 `json:"accessory_surcharge"`
	AdjustedUnitPrice  float64 `json:"adjusted_unit_price"`
	TotalPrice         float64 `json:"total_price"`
}

// Validation errors for callers that opt into hardened input checking.
var (
	ErrNegativeQuantity = errors.New("pricing: quantity must not be negative")
	ErrMissingUnitPrice = errors.New("pricing: quotation has no unit price")
)

// Calculator computes comparable prices through a currency converter.
type Calculator struct {
	fx *currency.Converter
}

// NewCalculator constructs a calculator.
func NewCalculator(fx *currency.Converter) *Calculator {
	return &Calculator{fx: fx}
}

// Converter exposes the underlying converter for display formatting.
func (c *Calculator) Converter() *currency.Converter {
	return c.fx
}

// Calculate normalizes the quotation's unit price, adds the surcharge of
// accessories not already folded into the proforma price, and scales by the
// requested equipment quantity.
//
// Each accessory's surcharge uses the accessory's own quantity, which is
// independent of the equipment quantity. Only accessories outside the
// proforma with a known unit price contribute; the rest are skipped. No
// rounding is applied here.
func (c *Calculator) Calculate(q Quotation, quantity float64) (Result, error) {
	base, err := c.fx.Convert(q.UnitPrice, q.Currency)
	if err != nil {
		return Result{}, err
	}
	var surcharge float64
	for _, acc := range q.Accessories {
		if acc.IncludedInProforma || acc.UnitPrice == nil {
			continue
		}
		code := acc.Currency
		if code == "" {
			code = q.Currency
		}
		if code == "" {
			code = "USD"
		}
		unit, err := c.fx.Convert(*acc.UnitPrice, code)
		if err != nil {
			return Result{}, err
		}
		surcharge += unit * acc.Quantity
	}
	adjusted := base + surcharge
	return Result{
		BasePrice:          base,
		AccessorySurcharge: surcharge,
		AdjustedUnitPrice:  adjusted,
		TotalPrice:         adjusted * quantity,
	}, nil
}

// AdjustedUnitPrice is Calculate at quantity 1, returning only the adjusted
// unit price.
func (c *Calculator) AdjustedUnitPrice(q Quotation) (float64, error) {
	res, err := c.Calculate(q, 1)
	if err != nil {
		return 0, err
	}
	return res.AdjustedUnitPrice, nil
}

// BestPrice returns the minimum adjusted unit price across quotations, 0 for
// an empty list. Callers must check emptiness before trusting 0 as a real
// price. Quotations that fail strict currency conversion are skipped.
func (c *Calculator) BestPrice(qs []Quotation) float64 {
	best := 0.0
	found := false
	for _, q := range qs {
		price, err := c.AdjustedUnitPrice(q)
		if err != nil {
			continue
		}
		if !found || price < best {
			best = price
			found = true
		}
	}
	return best
}

// WorstPrice returns the maximum adjusted unit price across quotations, 0
// for an empty list.
func (c *Calculator) WorstPrice(qs []Quotation) float64 {
	worst := 0.0
	found := false
	for _, q := range qs {
		price, err := c.AdjustedUnitPrice(q)
		if err != nil {
			continue
		}
		if !found || price > worst {
			worst = price
			found = true
		}
	}
	return worst
}

// Classify maps the quotation kind to its display label. Anything not
// explicitly imported counts as domestic.
func Classify(q Quotation) string {
	if q.Kind == KindImported {
		return "Importado"
	}
	return "Nacional"
}

// Validate applies the hardened input contract: equipment quantity must not
// be negative and the quotation needs a positive unit price. Calculate
// itself stays lenient so historical call sites keep their behavior.
func Validate(q Quotation, quantity float64) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if q.UnitPrice <= 0 {
		return ErrMissingUnitPrice
	}
	return nil
}
