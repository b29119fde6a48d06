package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutrilookup/lookup"
	"nutrilookup/nutrition"
)

type NutritionSuggest struct{ svc nutritionService }

func NewNutritionSuggest(svc nutritionService) *NutritionSuggest {
	return &NutritionSuggest{svc: svc}
}

func (t *NutritionSuggest) Name() string  { return "nutrition_suggest" }
func (t *NutritionSuggest) Title() string { return "Suggest Nutrition Improvements" }
func (t *NutritionSuggest) Description() string {
	return "Compares today's nutrient totals with daily goals and returns prioritized suggestions."
}

func (t *NutritionSuggest) InputSchema() *jsonschema.Schema {
	amounts := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:                 "object",
			Description:          desc,
			AdditionalProperties: &jsonschema.Schema{Type: "number"},
		}
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"totalNutrients": amounts("Nutrient totals consumed so far, keyed by nutrient name"),
			"dailyGoals":     amounts("Daily nutrient goals, keyed by nutrient name"),
			"meals":          nutrition.RecordListSchema(),
		},
		Required: []string{"totalNutrients", "dailyGoals"},
	}
}

func (t *NutritionSuggest) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"suggestions": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"suggestions"},
	}
}

func (t *NutritionSuggest) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lookup.ErrValidation, err)
	}
	var req lookup.SuggestRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", lookup.ErrValidation, err)
	}

	suggestions, err := t.svc.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	return toMap(struct {
		Suggestions []string `json:"suggestions"`
	}{Suggestions: suggestions})
}
