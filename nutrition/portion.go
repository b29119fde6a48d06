package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

var portionPattern = regexp.MustCompile(`(?i)\(\s*(\d+(?:\.\d+)?)\s*(g|ml)\s*\)`)

// PortionGrams reads the parenthesized gram or millilitre amount from a portion such as "1 medium (118g)".
// Millilitres are returned unconverted. ok is false when the portion carries no such annotation.
func PortionGrams(portion string) (grams float64, ok bool) {
	amount, _, ok := PortionAmount(portion)
	return amount, ok
}

// PortionAmount is PortionGrams that also reports whether the annotation was in millilitres.
func PortionAmount(portion string) (amount float64, volume bool, ok bool) {
	m := portionPattern.FindStringSubmatch(portion)
	if m == nil {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false, false
	}
	return v, strings.EqualFold(m[2], "ml"), true
}
