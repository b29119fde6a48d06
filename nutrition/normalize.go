package nutrition

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize coerces a loosely typed candidate into a Record. Every field is always set:
// a missing or non-numeric nutrient becomes 0, a missing name becomes fallbackName and a
// missing portion becomes DefaultPortion. A name or portion holding only whitespace counts as missing.
func Normalize(raw map[string]any, fallbackName string) Record {
	rec := Record{
		Name:    fallbackName,
		Portion: DefaultPortion,
	}

	if name, ok := textValue(raw["name"]); ok {
		rec.Name = name
	}
	if portion, ok := textValue(raw["portion"]); ok {
		rec.Portion = portion
	}

	for _, key := range Fields {
		*rec.field(key) = numberValue(raw[key])
	}
	return rec
}

// NormalizeAll normalizes every object in raw, in order. Elements that are not objects are dropped.
func NormalizeAll(raw []any, fallbackName string) []Record {
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Normalize(obj, fallbackName))
	}
	return out
}

// textValue returns v as display text when it is a non-blank string or a non-zero number.
func textValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return textValue(t.String())
	default:
		return "", false
	}
}

// numberValue coerces v to a finite, non-negative number, or 0.
func numberValue(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
