// Package nutrition holds the canonical nutrient record and the pure functions that
// parse quantities, read portion sizes, repair loosely typed model output and rescale records.
package nutrition

// DefaultPortion is assigned when a candidate record carries no portion description.
const DefaultPortion = "1 serving (100g)"

// ReferenceGrams is the serving size assumed for a portion without a parenthesized quantity.
const ReferenceGrams = 100.0

// Record is the nutrition facts of one food for one portion.
type Record struct {
	Name       string  `json:"name"`
	Portion    string  `json:"portion"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Fiber      float64 `json:"fiber"`
	Sugar      float64 `json:"sugar"`
	Sodium     float64 `json:"sodium"`
	Iron       float64 `json:"iron"`
	Zinc       float64 `json:"zinc"`
	Calcium    float64 `json:"calcium"`
	VitaminB12 float64 `json:"vitaminB12"`
	VitaminD   float64 `json:"vitaminD"`
	VitaminA   float64 `json:"vitaminA"`
	Omega3     float64 `json:"omega3"`
	VitaminC   float64 `json:"vitaminC"`
	Magnesium  float64 `json:"magnesium"`
	Potassium  float64 `json:"potassium"`
}

// Fields lists the numeric nutrient keys in wire order.
var Fields = []string{
	"calories", "protein", "carbs", "fat", "fiber", "sugar", "sodium", "iron", "zinc",
	"calcium", "vitaminB12", "vitaminD", "vitaminA", "omega3", "vitaminC", "magnesium", "potassium",
}

// FieldUnits is the unit every numeric field is expressed in. Units are never stored on a record.
var FieldUnits = map[string]string{
	"calories":   "kcal",
	"protein":    "g",
	"carbs":      "g",
	"fat":        "g",
	"fiber":      "g",
	"sugar":      "g",
	"sodium":     "mg",
	"iron":       "mg",
	"zinc":       "mg",
	"calcium":    "mg",
	"vitaminB12": "µg",
	"vitaminD":   "µg",
	"vitaminA":   "µg",
	"omega3":     "g",
	"vitaminC":   "mg",
	"magnesium":  "mg",
	"potassium":  "mg",
}

// field returns a pointer to the numeric field named key, or nil for an unknown key.
func (r *Record) field(key string) *float64 {
	switch key {
	case "calories":
		return &r.Calories
	case "protein":
		return &r.Protein
	case "carbs":
		return &r.Carbs
	case "fat":
		return &r.Fat
	case "fiber":
		return &r.Fiber
	case "sugar":
		return &r.Sugar
	case "sodium":
		return &r.Sodium
	case "iron":
		return &r.Iron
	case "zinc":
		return &r.Zinc
	case "calcium":
		return &r.Calcium
	case "vitaminB12":
		return &r.VitaminB12
	case "vitaminD":
		return &r.VitaminD
	case "vitaminA":
		return &r.VitaminA
	case "omega3":
		return &r.Omega3
	case "vitaminC":
		return &r.VitaminC
	case "magnesium":
		return &r.Magnesium
	case "potassium":
		return &r.Potassium
	}
	return nil
}

// Value returns the numeric field named key and whether the key is known.
func (r Record) Value(key string) (float64, bool) {
	p := r.field(key)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Values returns every numeric field keyed by its wire name.
func (r Record) Values() map[string]float64 {
	out := make(map[string]float64, len(Fields))
	for _, key := range Fields {
		out[key] = *r.field(key)
	}
	return out
}

// Totals sums every numeric field across records, rounded to 2 decimals.
func Totals(records []Record) map[string]float64 {
	out := make(map[string]float64, len(Fields))
	for _, key := range Fields {
		var sum float64
		for i := range records {
			sum += *records[i].field(key)
		}
		out[key] = round2(sum)
	}
	return out
}
