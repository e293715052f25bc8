package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizamed/cotizamed/internal/currency"
)

func testCalculator() *Calculator {
	return NewCalculator(currency.NewConverter(currency.DefaultTable(), false))
}

func price(v float64) *float64 { return &v }

func TestCalculateBasePriceOnly(t *testing.T) {
	calc := testCalculator()

	res, err := calc.Calculate(Quotation{UnitPrice: 100, Currency: "USD"}, 3)
	require.NoError(t, err)

	assert.Equal(t, 400.0, res.BasePrice)
	assert.Equal(t, 0.0, res.AccessorySurcharge)
	assert.Equal(t, 400.0, res.AdjustedUnitPrice)
	assert.Equal(t, 1200.0, res.TotalPrice)
}

func TestCalculateAccessorySurcharge(t *testing.T) {
	calc := testCalculator()

	q := Quotation{
		UnitPrice: 1000,
		Currency:  "PEN",
		Accessories: []Accessory{
			// Two sensor kits quoted in USD, outside the proforma.
			{Name: "Sensor SpO2", Quantity: 2, UnitPrice: price(50), Currency: "USD"},
			// Already bundled into the quoted unit price: must not count.
			{Name: "Carro de transporte", Quantity: 1, UnitPrice: price(1000), IncludedInProforma: true},
			// Price unknown: skipped, not treated as zero-priced inclusion.
			{Name: "Cable paciente", Quantity: 5},
		},
	}

	res, err := calc.Calculate(q, 1)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.BasePrice)
	assert.Equal(t, 400.0, res.AccessorySurcharge) // 2 * 50 USD * 4.0
	assert.Equal(t, 1400.0, res.AdjustedUnitPrice)
	assert.Equal(t, 1400.0, res.TotalPrice)
}

func TestCalculateProformaAccessoryNeverAffectsPrice(t *testing.T) {
	calc := testCalculator()

	base := Quotation{UnitPrice: 200, Currency: "USD"}
	withProforma := base
	withProforma.Accessories = []Accessory{
		{Name: "Incluido", Quantity: 1, UnitPrice: price(1000), IncludedInProforma: true},
	}

	a, err := calc.Calculate(base, 1)
	require.NoError(t, err)
	b, err := calc.Calculate(withProforma, 1)
	require.NoError(t, err)

	assert.Equal(t, a.AdjustedUnitPrice, b.AdjustedUnitPrice)
	assert.Equal(t, b.BasePrice, b.AdjustedUnitPrice)
}

func TestCalculateAccessoryCurrencyFallback(t *testing.T) {
	calc := testCalculator()

	t.Run("inherits quotation currency", func(t *testing.T) {
		q := Quotation{
			UnitPrice:   0,
			Currency:    "EUR",
			Accessories: []Accessory{{Quantity: 1, UnitPrice: price(10)}},
		}
		res, err := calc.Calculate(q, 1)
		require.NoError(t, err)
		assert.Equal(t, 47.0, res.AccessorySurcharge)
	})

	t.Run("defaults to USD when quotation has no currency", func(t *testing.T) {
		q := Quotation{
			Accessories: []Accessory{{Quantity: 1, UnitPrice: price(10)}},
		}
		res, err := calc.Calculate(q, 1)
		require.NoError(t, err)
		assert.Equal(t, 40.0, res.AccessorySurcharge)
	})

	t.Run("own currency wins", func(t *testing.T) {
		q := Quotation{
			Currency:    "USD",
			Accessories: []Accessory{{Quantity: 1, UnitPrice: price(10), Currency: "PEN"}},
		}
		res, err := calc.Calculate(q, 1)
		require.NoError(t, err)
		assert.Equal(t, 10.0, res.AccessorySurcharge)
	})
}

func TestCalculateTotalIsAdjustedTimesQuantity(t *testing.T) {
	calc := testCalculator()

	q := Quotation{
		UnitPrice: 123.45,
		Currency:  "USD",
		Accessories: []Accessory{
			{Quantity: 3, UnitPrice: price(7.5), Currency: "EUR"},
		},
	}
	for _, qty := range []float64{0, 1, 2, 10, 150} {
		res, err := calc.Calculate(q, qty)
		require.NoError(t, err)
		assert.InDelta(t, res.AdjustedUnitPrice*qty, res.TotalPrice, 1e-9)
	}
}

func TestCalculateStrictConverterSurfacesError(t *testing.T) {
	calc := NewCalculator(currency.NewConverter(currency.DefaultTable(), true))

	_, err := calc.Calculate(Quotation{UnitPrice: 10, Currency: "GBP"}, 1)
	require.ErrorIs(t, err, currency.ErrUnknownCurrency)
}

func TestBestAndWorstPrice(t *testing.T) {
	calc := testCalculator()

	qs := []Quotation{
		{UnitPrice: 100, Currency: "USD"},  // 400
		{UnitPrice: 1500, Currency: "PEN"}, // 1500
		{UnitPrice: 50, Currency: "EUR"},   // 235
	}

	assert.Equal(t, 235.0, calc.BestPrice(qs))
	assert.Equal(t, 1500.0, calc.WorstPrice(qs))
	assert.LessOrEqual(t, calc.BestPrice(qs), calc.WorstPrice(qs))
}

func TestBestAndWorstPriceEmptyList(t *testing.T) {
	calc := testCalculator()

	assert.Equal(t, 0.0, calc.BestPrice(nil))
	assert.Equal(t, 0.0, calc.WorstPrice(nil))
	assert.Equal(t, 0.0, calc.BestPrice([]Quotation{}))
	assert.Equal(t, 0.0, calc.WorstPrice([]Quotation{}))
}

func TestBestPriceConsidersAccessories(t *testing.T) {
	calc := testCalculator()

	qs := []Quotation{
		{UnitPrice: 100, Currency: "USD"}, // 400
		{
			UnitPrice:   95,
			Currency:    "USD",
			Accessories: []Accessory{{Quantity: 1, UnitPrice: price(10), Currency: "USD"}},
		}, // 380 + 40 = 420
	}

	assert.Equal(t, 400.0, calc.BestPrice(qs))
	assert.Equal(t, 420.0, calc.WorstPrice(qs))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "Importado", Classify(Quotation{Kind: KindImported}))
	assert.Equal(t, "Nacional", Classify(Quotation{Kind: KindDomestic}))
	assert.Equal(t, "Nacional", Classify(Quotation{}))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Quotation{UnitPrice: 10}, 1))
	assert.ErrorIs(t, Validate(Quotation{UnitPrice: 10}, -1), ErrNegativeQuantity)
	assert.ErrorIs(t, Validate(Quotation{}, 1), ErrMissingUnitPrice)
}
