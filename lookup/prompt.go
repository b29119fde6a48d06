package lookup

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutrilookup/nutrition"
)

// SuggestionsSchema describes the object the suggestion prompt asks for.
func SuggestionsSchema(limit int) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"suggestions": {
				Type:     "array",
				Items:    &jsonschema.Schema{Type: "string"},
				MaxItems: &limit,
			},
		},
		Required: []string{"suggestions"},
	}
}

func renderSchema(s *jsonschema.Schema) string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// NewLookupPrompt builds the food lookup prompt for a food description with any quantity already removed.
func NewLookupPrompt(description string) string {
	var b strings.Builder

	b.WriteString("You are a nutrition database. Return nutrition facts for the food described below.\n\n")
	fmt.Fprintf(&b, "FOOD: %s\n\n", description)
	b.WriteString(`OUTPUT CONTRACT
- Return ONE JSON array with up to 3 objects, best match first. No prose, no markdown, no code fences.
- Each object must follow this JSON schema:
`)
	b.WriteString(renderSchema(nutrition.RecordSchema()))
	b.WriteString(`

RULES
- "portion" names a common serving and puts its gram (or mL for liquids) amount in parentheses, e.g. "1 medium (118g)".
- Every number is the amount in that portion, in the unit stated by the schema. Use 0 when unknown.
- Numbers only: no units or text inside numeric fields.
- If the description is ambiguous, return the most common interpretations.`)

	return b.String()
}

// NewSuggestPrompt builds the suggestion prompt from the day's totals, the goals and recent meals.
func NewSuggestPrompt(req SuggestRequest, maxSuggestions int) string {
	var b strings.Builder

	b.WriteString("You are a nutrition coach. Compare today's intake with the daily goals and suggest what to eat or change.\n\n")

	b.WriteString("TOTALS SO FAR:\n")
	b.WriteString(mustJSON(req.Totals))
	b.WriteString("\n\nDAILY GOALS:\n")
	b.WriteString(mustJSON(req.Goals))
	b.WriteString("\n")

	if len(req.Meals) > 0 {
		b.WriteString("\nRECENT MEALS:\n")
		b.WriteString(mustJSON(req.Meals))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
OUTPUT CONTRACT
- Return ONE JSON object only, no prose, no markdown, no code fences.
- Shape:
%s
- At most %d suggestions, each a single short sentence.
- Order by priority: the largest deficiency relative to its goal first.
- Flag sugar or sodium above goal explicitly.`, renderSchema(SuggestionsSchema(maxSuggestions)), maxSuggestions)

	return b.String()
}

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}
