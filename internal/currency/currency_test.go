package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertObservedRates(t *testing.T) {
	fx := NewConverter(DefaultTable(), false)

	tests := []struct {
		name   string
		amount float64
		code   string
		want   float64
	}{
		{"usd", 100, "USD", 400},
		{"usd lowercase", 100, "usd", 400},
		{"eur", 100, "EUR", 470},
		{"euro alias", 100, "EURO", 470},
		{"pen identity", 250.5, "PEN", 250.5},
		{"sol identity", 250.5, "SOL", 250.5},
		{"soles identity", 250.5, "SOLES", 250.5},
		{"zero", 0, "USD", 0},
		{"negative passes through", -10, "USD", -40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fx.Convert(tc.amount, tc.code)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestConvertIsLinear(t *testing.T) {
	fx := NewConverter(DefaultTable(), false)
	for _, code := range []string{"USD", "EUR", "PEN", "XYZ"} {
		a, err := fx.Convert(37.25, code)
		require.NoError(t, err)
		b, err := fx.Convert(74.5, code)
		require.NoError(t, err)
		assert.InDelta(t, 2*a, b, 1e-9, "code %s", code)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	t.Run("lenient falls back to rate 1", func(t *testing.T) {
		fx := NewConverter(DefaultTable(), false)
		got, err := fx.Convert(99, "GBP")
		require.NoError(t, err)
		assert.Equal(t, 99.0, got)
	})

	t.Run("strict rejects", func(t *testing.T) {
		fx := NewConverter(DefaultTable(), true)
		_, err := fx.Convert(99, "GBP")
		require.ErrorIs(t, err, ErrUnknownCurrency)
	})
}

func TestNewTableAddsReference(t *testing.T) {
	table := NewTable("pen", map[string]float64{"usd": 4.0})
	assert.Equal(t, "PEN", table.Reference())

	rate, ok := table.Rate("PEN")
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)

	rate, ok = table.Rate("USD")
	require.True(t, ok)
	assert.Equal(t, 4.0, rate)
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates("USD=4.0, EUR=4.7,euro=4.7")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"USD": 4.0, "EUR": 4.7, "EURO": 4.7}, rates)

	_, err = ParseRates("USD")
	require.Error(t, err)

	_, err = ParseRates("USD=abc")
	require.Error(t, err)

	_, err = ParseRates("")
	require.Error(t, err)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "S/", Symbol("PEN"))
	assert.Equal(t, "S/", Symbol("soles"))
	assert.Equal(t, "$", Symbol("USD"))
	assert.Equal(t, "€", Symbol("euro"))
	assert.Equal(t, "GBP", Symbol("GBP"))
}

func TestFormat(t *testing.T) {
	fx := NewConverter(DefaultTable(), false)
	got := fx.Format(1234.5)
	assert.Contains(t, got, "S/")
	assert.Contains(t, got, "50") // two fixed fraction digits
}
