// Package currency normalizes monetary amounts from heterogeneous supplier
// currencies into a single reference currency using an injected rate table.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCurrency indicates a code with no configured rate while the
// converter runs in strict mode.
var ErrUnknownCurrency = errors.New("currency: unknown currency code")

// Table maps currency codes to their rate into the reference currency.
// Aliases (EUR/EURO, PEN/SOL/SOLES) are stored as separate entries sharing
// one rate. Lookup is case-insensitive.
type Table struct {
	reference string
	rates     map[string]float64
}

// NewTable builds a rate table. The reference currency always resolves to
// rate 1.0 even when absent from rates.
func NewTable(reference string, rates map[string]float64) Table {
	normalized := make(map[string]float64, len(rates)+1)
	for code, rate := range rates {
		normalized[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	ref := strings.ToUpper(strings.TrimSpace(reference))
	if _, ok := normalized[ref]; !ok {
		normalized[ref] = 1.0
	}
	return Table{reference: ref, rates: normalized}
}

// DefaultTable returns the rates used by the procurement team: prices are
// compared in Peruvian soles.
func DefaultTable() Table {
	return NewTable("PEN", map[string]float64{
		"PEN":   1.0,
		"SOL":   1.0,
		"SOLES": 1.0,
		"USD":   4.0,
		"EUR":   4.7,
		"EURO":  4.7,
	})
}

// Reference returns the table's reference currency code.
func (t Table) Reference() string {
	return t.reference
}

// Rate returns the configured rate for code and whether the code is known.
func (t Table) Rate(code string) (float64, bool) {
	rate, ok := t.rates[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

// ParseRates parses a "CODE=rate,CODE=rate" list, the format used by the
// FX_RATES environment variable.
func ParseRates(s string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("currency: malformed rate pair %q", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("currency: rate for %s: %w", strings.TrimSpace(code), err)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	if len(rates) == 0 {
		return nil, errors.New("currency: empty rate list")
	}
	return rates, nil
}

// Converter converts amounts into the reference currency.
//
// Unrecognized codes are treated as already being in the reference currency
// (rate 1.0) unless strict mode is enabled, in which case Convert returns
// ErrUnknownCurrency. The lenient default matches how supplier quotations
// have historically been entered, with free-form currency text.
type Converter struct {
	table  Table
	strict bool
}

// NewConverter constructs a converter over the given table.
func NewConverter(table Table, strict bool) *Converter {
	return &Converter{table: table, strict: strict}
}

// Reference returns the reference currency code.
func (c *Converter) Reference() string {
	return c.table.Reference()
}

// Strict reports whether unknown codes are rejected.
func (c *Converter) Strict() bool {
	return c.strict
}

// Convert returns amount expressed in the reference currency. Negative
// amounts pass through unchanged in sign; callers guard against them where
// they are not allowed.
func (c *Converter) Convert(amount float64, fromCurrency string) (float64, error) {
	rate, ok := c.table.Rate(fromCurrency)
	if !ok {
		if c.strict {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, fromCurrency)
		}
		rate = 1.0
	}
	return amount * rate, nil
}
