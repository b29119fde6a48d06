package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutrilookup/lookup"
	"nutrilookup/nutrition"
)

type FoodLookup struct{ svc nutritionService }

func NewFoodLookup(svc nutritionService) *FoodLookup { return &FoodLookup{svc: svc} }

func (t *FoodLookup) Name() string  { return "food_lookup" }
func (t *FoodLookup) Title() string { return "Look Up Food Nutrition" }
func (t *FoodLookup) Description() string {
	return "Returns nutrition facts for a free-text food query. An amount in the query (e.g. \"banana 150g\") rescales every record to it."
}

func (t *FoodLookup) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: "Food description, optionally with an amount in g, kg, ml or l",
			},
		},
		Required: []string{"query"},
	}
}

func (t *FoodLookup) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"foods": nutrition.RecordListSchema(),
		},
		Required: []string{"foods"},
	}
}

func (t *FoodLookup) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	query, _ := input["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: input.query must be a non-empty string", lookup.ErrValidation)
	}

	records, err := t.svc.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	return toMap(struct {
		Foods []nutrition.Record `json:"foods"`
	}{Foods: records})
}
