package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutrilookup/lookup"
	"nutrilookup/nutrition"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

// Call is a request to run a named tool, as received from an agent or a Lambda event.
type Call struct {
	Name      string         `json:"name"`
	Input     map[string]any `json:"input"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
}

type nutritionService interface {
	Lookup(ctx context.Context, query string) ([]nutrition.Record, error)
	Suggest(ctx context.Context, req lookup.SuggestRequest) ([]string, error)
}

// toMap marshals v and decodes it back into a generic map to keep outputs uniform.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool output: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal tool output: %w", err)
	}
	return m, nil
}
