package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var displayLocale = language.MustParse("es-PE")

var symbols = map[string]string{
	"PEN":   "S/",
	"SOL":   "S/",
	"SOLES": "S/",
	"USD":   "$",
	"EUR":   "€",
	"EURO":  "€",
}

// Symbol returns the display symbol for a currency code. Unrecognized codes
// fall back to the raw code so the UI still shows something meaningful.
func Symbol(code string) string {
	if sym, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return sym
	}
	return strings.TrimSpace(code)
}

// Format renders a reference-currency amount with its symbol and
// locale-appropriate separators, always two fraction digits.
func (c *Converter) Format(amount float64) string {
	p := message.NewPrinter(displayLocale)
	return p.Sprintf("%s %v", Symbol(c.table.Reference()),
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
