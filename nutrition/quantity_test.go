package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantAmount    float64
		wantUnit      string
		wantGrams     float64
		wantRemainder string
		wantNone      bool
	}{
		{name: "grams suffix", query: "banana 150g", wantAmount: 150, wantUnit: "g", wantGrams: 150, wantRemainder: "banana"},
		{name: "millilitres", query: "milk 250ml", wantAmount: 250, wantUnit: "ml", wantGrams: 250, wantRemainder: "milk"},
		{name: "kilograms leading", query: "2kg rice", wantAmount: 2, wantUnit: "kg", wantGrams: 2000, wantRemainder: "rice"},
		{name: "litres upper case", query: "orange juice 1.5 L", wantAmount: 1.5, wantUnit: "L", wantGrams: 1500, wantRemainder: "orange juice"},
		{name: "spelled out grams", query: "chicken breast 200 grams", wantAmount: 200, wantUnit: "grams", wantGrams: 200, wantRemainder: "chicken breast"},
		{name: "spelled out gram", query: "1 gram saffron", wantAmount: 1, wantUnit: "gram", wantGrams: 1, wantRemainder: "saffron"},
		{name: "milliliters", query: "olive oil 15 milliliters", wantAmount: 15, wantUnit: "milliliters", wantGrams: 15, wantRemainder: "olive oil"},
		{name: "mixed case mL", query: "soy sauce 10mL", wantAmount: 10, wantUnit: "mL", wantGrams: 10, wantRemainder: "soy sauce"},
		{name: "upper case KG", query: "potatoes 1KG", wantAmount: 1, wantUnit: "KG", wantGrams: 1000, wantRemainder: "potatoes"},
		{name: "decimal grams", query: "butter 12.5g", wantAmount: 12.5, wantUnit: "g", wantGrams: 12.5, wantRemainder: "butter"},
		{name: "only first match is used", query: "rice 100g and beans 50g", wantAmount: 100, wantUnit: "g", wantGrams: 100, wantRemainder: "rice  and beans 50g"},
		{name: "leading decimal", query: "rice .5kg", wantAmount: 0.5, wantUnit: "kg", wantGrams: 500, wantRemainder: "rice"},
		{name: "quantity only", query: "150g", wantAmount: 150, wantUnit: "g", wantGrams: 150, wantRemainder: ""},
		{name: "no quantity", query: "apple", wantNone: true, wantRemainder: "apple"},
		{name: "no quantity trimmed", query: "  apple pie  ", wantNone: true, wantRemainder: "apple pie"},
		{name: "count is not a unit", query: "3 eggs", wantNone: true, wantRemainder: "3 eggs"},
		{name: "word starting with unit letter", query: "2 large eggs", wantNone: true, wantRemainder: "2 large eggs"},
		{name: "empty", query: "", wantNone: true, wantRemainder: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuantity(tt.query)
			assert.Equal(t, tt.wantRemainder, got.Remainder)

			if tt.wantNone {
				assert.Nil(t, got.Amount)
				assert.Nil(t, got.Unit)
				assert.Nil(t, got.Grams)
				assert.False(t, got.HasGrams())
				return
			}

			require.NotNil(t, got.Amount)
			require.NotNil(t, got.Unit)
			require.NotNil(t, got.Grams)
			assert.Equal(t, tt.wantAmount, *got.Amount)
			assert.Equal(t, tt.wantUnit, *got.Unit)
			assert.InDelta(t, tt.wantGrams, *got.Grams, 1e-9)
			assert.True(t, got.HasGrams())
		})
	}
}

func TestParseQuantityWithDensity(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		density   float64
		wantGrams float64
	}{
		{name: "volume uses density", query: "honey 100ml", density: 1.4, wantGrams: 140},
		{name: "litres use density", query: "oil 1l", density: 0.92, wantGrams: 920},
		{name: "mass ignores density", query: "flour 100g", density: 0.5, wantGrams: 100},
		{name: "non-positive density falls back to 1", query: "water 300ml", density: 0, wantGrams: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuantityWithDensity(tt.query, tt.density)
			require.NotNil(t, got.Grams)
			assert.InDelta(t, tt.wantGrams, *got.Grams, 1e-9)
		})
	}
}

func TestQuantity_BaseAmount(t *testing.T) {
	tests := []struct {
		query   string
		density float64
		want    float64
	}{
		{query: "honey 100ml", density: 1.4, want: 100},
		{query: "milk 0.5 L", density: 1.03, want: 500},
		{query: "rice 2kg", density: 1.03, want: 2000},
		{query: "apple", density: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ParseQuantityWithDensity(tt.query, tt.density)
			assert.InDelta(t, tt.want, got.BaseAmount(), 1e-9)
		})
	}
}

func TestIsVolumeUnit(t *testing.T) {
	for unit, want := range map[string]bool{
		"g": false, "grams": false, "kg": false, "": false,
		"ml": true, "mL": true, "L": true, "l": true, "milliliters": true,
	} {
		assert.Equal(t, want, IsVolumeUnit(unit), unit)
	}
}
