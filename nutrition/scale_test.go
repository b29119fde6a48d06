package nutrition

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBanana() Record {
	return Record{
		Name:       "Banana",
		Portion:    "1 medium (118g)",
		Calories:   105,
		Protein:    1.3,
		Carbs:      27,
		Fat:        0.39,
		Fiber:      3.1,
		Sugar:      14.4,
		Sodium:     1.2,
		Iron:       0.31,
		Zinc:       0.18,
		Calcium:    5.9,
		VitaminB12: 0,
		VitaminD:   0,
		VitaminA:   3.5,
		Omega3:     0.03,
		VitaminC:   10.3,
		Magnesium:  31.9,
		Potassium:  422,
	}
}

func TestScale_BananaScenario(t *testing.T) {
	got := Scale(sampleBanana(), 150, 150, "g")

	assert.Equal(t, "Banana", got.Name)
	assert.Equal(t, "custom serving (150g)", got.Portion)
	assert.Equal(t, 133.47, got.Calories)
	assert.Equal(t, 1.65, got.Protein)
	assert.Equal(t, 536.44, got.Potassium)
}

func TestScale_Linearity(t *testing.T) {
	in := sampleBanana()

	for _, desired := range []float64{1, 50, 59, 118, 236, 1000, 12.5} {
		t.Run(fmt.Sprintf("%vg", desired), func(t *testing.T) {
			got := Scale(in, desired, desired, "g")
			ratio := desired / 118

			for key, v := range in.Values() {
				want := math.Round(v*ratio*100) / 100
				gotV, _ := got.Value(key)
				assert.Equal(t, want, gotV, key)
			}
		})
	}
}

func TestScale_RatioOneIsIdentity(t *testing.T) {
	in := sampleBanana()
	got := Scale(in, 118, 118, "g")

	assert.Equal(t, in.Values(), got.Values())
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, "custom serving (118g)", got.Portion)
}

func TestScale_ReferenceDefaultsTo100(t *testing.T) {
	in := Record{Name: "Rice", Portion: "1 cup", Calories: 130, Carbs: 28.2}
	got := Scale(in, 250, 250, "g")

	assert.Equal(t, 325.0, got.Calories)
	assert.Equal(t, 70.5, got.Carbs)
}

func TestScale_ZeroReferenceDefaultsTo100(t *testing.T) {
	in := Record{Name: "Air", Portion: "nothing (0g)", Calories: 10}
	got := Scale(in, 50, 50, "g")

	assert.Equal(t, 5.0, got.Calories)
}

func TestScale_Labels(t *testing.T) {
	in := Record{Name: "Milk", Portion: "1 cup (240ml)", Calories: 103}

	tests := []struct {
		unit    string
		display float64
		want    string
	}{
		{unit: "ml", display: 250, want: "custom serving (250ml)"},
		{unit: "mL", display: 250, want: "custom serving (250ml)"},
		{unit: "L", display: 1000, want: "custom serving (1000ml)"},
		{unit: "milliliters", display: 250, want: "custom serving (250ml)"},
		{unit: "g", display: 250, want: "custom serving (250g)"},
		{unit: "kg", display: 2000, want: "custom serving (2000g)"},
		{unit: "", display: 250, want: "custom serving (250g)"},
		{unit: "g", display: 12.5, want: "custom serving (12.5g)"},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got := Scale(in, 250, tt.display, tt.unit)
			assert.Equal(t, tt.want, got.Portion)
		})
	}
}

func TestScaleWithDensity(t *testing.T) {
	milk := Record{Name: "Milk", Portion: "1 cup (240ml)", Calories: 120}
	oil := Record{Name: "Olive oil", Portion: "1 tbsp (13.5g)", Calories: 119}

	tests := []struct {
		name    string
		in      Record
		desired float64
		unit    string
		density float64
		wantCal float64
	}{
		{name: "volume to volume is density free", in: milk, desired: 240 * 2, unit: "ml", density: 2, wantCal: 120},
		{name: "half volume", in: milk, desired: 120 * 1.03, unit: "ml", density: 1.03, wantCal: 60},
		{name: "grams against millilitre reference", in: milk, desired: 480, unit: "g", density: 2, wantCal: 120},
		{name: "gram reference ignores density", in: oil, desired: 27, unit: "g", density: 0.9, wantCal: 238},
		{name: "non-positive density falls back", in: milk, desired: 240, unit: "ml", density: 0, wantCal: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleWithDensity(tt.in, tt.desired, 0, tt.unit, tt.density)
			assert.InDelta(t, tt.wantCal, got.Calories, 0.01)
		})
	}
}

func TestScale_NonPositiveDesiredPassesThrough(t *testing.T) {
	in := sampleBanana()

	assert.Equal(t, in, Scale(in, 0, 0, "g"))
	assert.Equal(t, in, Scale(in, -5, -5, "g"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005000001))
	assert.Equal(t, 2.35, round2(2.345000001))
	assert.Equal(t, -2.35, round2(-2.345000001))
	assert.Equal(t, 133.47, round2(105*150.0/118))
}
