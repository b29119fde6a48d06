package nutrition

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// RecordSchema describes the wire shape of a Record. It is rendered into prompts and tool descriptions.
func RecordSchema() *jsonschema.Schema {
	minValue := 0.0

	props := map[string]*jsonschema.Schema{
		"name": {
			Type:        "string",
			Description: "food name",
		},
		"portion": {
			Type:        "string",
			Description: `serving description with the gram or mL amount in parentheses, e.g. "1 medium (118g)"`,
		},
	}
	for _, key := range Fields {
		props[key] = &jsonschema.Schema{
			Type:        "number",
			Minimum:     &minValue,
			Description: fmt.Sprintf("amount per portion in %s", FieldUnits[key]),
		}
	}

	required := append([]string{"name", "portion"}, Fields...)

	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// RecordListSchema describes an array of records.
func RecordListSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "array",
		Items: RecordSchema(),
	}
}
