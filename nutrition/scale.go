package nutrition

import (
	"fmt"
	"math"
	"strconv"
)

// Scale rescales every nutrient of r from its reference portion to desiredGrams and relabels the
// portion as "custom serving (<displayAmount><g|ml>)". The reference is the portion's parenthesized
// amount, or ReferenceGrams when there is none. A non-positive desiredGrams returns r unchanged.
// Millilitre references are taken at DefaultDensity.
func Scale(r Record, desiredGrams, displayAmount float64, unit string) Record {
	return ScaleWithDensity(r, desiredGrams, displayAmount, unit, DefaultDensity)
}

// ScaleWithDensity is Scale with a millilitre reference converted to grams at density, so a
// desiredGrams computed with the same density keeps volume-to-volume ratios exact.
func ScaleWithDensity(r Record, desiredGrams, displayAmount float64, unit string, density float64) Record {
	if desiredGrams <= 0 || math.IsNaN(desiredGrams) || math.IsInf(desiredGrams, 0) {
		return r
	}
	if density <= 0 {
		density = DefaultDensity
	}

	reference, volume, ok := PortionAmount(r.Portion)
	if volume {
		reference *= density
	}
	if !ok || reference <= 0 {
		reference = ReferenceGrams
	}
	ratio := desiredGrams / reference

	out := r
	for _, key := range Fields {
		p := out.field(key)
		*p = round2(*p * ratio)
	}

	label := "g"
	if IsVolumeUnit(unit) {
		label = "ml"
	}
	out.Portion = fmt.Sprintf("custom serving (%s%s)", strconv.FormatFloat(round2(displayAmount), 'f', -1, 64), label)
	return out
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
