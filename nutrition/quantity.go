package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDensity is the g/mL factor used when volumes are turned into grams.
const DefaultDensity = 1.0

// Quantity is an amount and unit found inside a free-text query. Nil fields mean no quantity was found.
type Quantity struct {
	Amount *float64 `json:"amountValue"`
	Unit   *string  `json:"unitToken"`
	Grams  *float64 `json:"grams"`
	// Remainder is the query with the matched amount and unit removed, trimmed.
	Remainder string `json:"remainderText"`
}

// HasGrams reports whether a positive gram-equivalent amount was parsed.
func (q Quantity) HasGrams() bool {
	return q.Grams != nil && *q.Grams > 0
}

// Longer alternatives come first so "grams" is not cut short at "g". A bare leading decimal such as ".5kg" is accepted.
var quantityPattern = regexp.MustCompile(`(?i)(\d*\.?\d+)\s*(milliliters|milliliter|grams|gram|kg|ml|g|l)\b`)

type unitDef struct {
	toGrams float64
	volume  bool
}

var unitTable = map[string]unitDef{
	"g":           {toGrams: 1},
	"gram":        {toGrams: 1},
	"grams":       {toGrams: 1},
	"kg":          {toGrams: 1000},
	"ml":          {toGrams: 1, volume: true},
	"milliliter":  {toGrams: 1, volume: true},
	"milliliters": {toGrams: 1, volume: true},
	"l":           {toGrams: 1000, volume: true},
}

// ParseQuantity finds the first "<number><unit>" in query, assuming 1 g/mL for volumes.
func ParseQuantity(query string) Quantity {
	return ParseQuantityWithDensity(query, DefaultDensity)
}

// ParseQuantityWithDensity is ParseQuantity with an explicit g/mL density for volume units.
// A non-positive density falls back to DefaultDensity.
func ParseQuantityWithDensity(query string, density float64) Quantity {
	if density <= 0 {
		density = DefaultDensity
	}

	loc := quantityPattern.FindStringSubmatchIndex(query)
	if loc == nil {
		return Quantity{Remainder: strings.TrimSpace(query)}
	}

	amount, err := strconv.ParseFloat(query[loc[2]:loc[3]], 64)
	if err != nil {
		return Quantity{Remainder: strings.TrimSpace(query)}
	}
	unit := query[loc[4]:loc[5]]

	def := unitTable[strings.ToLower(unit)]
	grams := amount * def.toGrams
	if def.volume {
		grams *= density
	}

	return Quantity{
		Amount:    &amount,
		Unit:      &unit,
		Grams:     &grams,
		Remainder: strings.TrimSpace(query[:loc[0]] + query[loc[1]:]),
	}
}

// BaseAmount is the parsed amount in grams or millilitres, without any density applied.
// It is 0 when no quantity was found.
func (q Quantity) BaseAmount() float64 {
	if q.Amount == nil || q.Unit == nil {
		return 0
	}
	return *q.Amount * unitTable[strings.ToLower(*q.Unit)].toGrams
}

// IsVolumeUnit reports whether a literal unit token should be labelled in millilitres.
func IsVolumeUnit(unit string) bool {
	return strings.Contains(strings.ToLower(unit), "l")
}
