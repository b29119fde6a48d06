package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// Generator is a deterministic stand-in for a generative model. It answers lookup prompts with a
// canned food array and suggestion prompts with a canned suggestions object, unless scripted
// responses were supplied, in which case those are returned in order (the last one repeats).
type Generator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func NewGenerator(responses ...string) *Generator {
	return &Generator{responses: responses}
}

// NewFailingGenerator returns a generator whose every call fails with err.
func NewFailingGenerator(err error) *Generator {
	return &Generator{err: err}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	slog.Info("GENERATOR: Mock invoked", "prompt_len", len(prompt))

	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	g.prompts = append(g.prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.err != nil {
		return "", g.err
	}

	if len(g.responses) > 0 {
		i := min(g.calls-1, len(g.responses)-1)
		return g.responses[i], nil
	}

	if strings.Contains(prompt, `"suggestions"`) {
		return cannedSuggestions(), nil
	}
	return cannedFoods(), nil
}

// Calls returns how many times Generate was invoked.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// LastPrompt returns the most recent prompt, or "".
func (g *Generator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func cannedFoods() string {
	foods := []map[string]any{
		{
			"name": "Banana", "portion": "1 medium (118g)",
			"calories": 105, "protein": 1.3, "carbs": 27, "fat": 0.4, "fiber": 3.1, "sugar": 14.4,
			"sodium": 1, "iron": 0.3, "zinc": 0.2, "calcium": 6, "vitaminB12": 0, "vitaminD": 0,
			"vitaminA": 3, "omega3": 0.03, "vitaminC": 10.3, "magnesium": 32, "potassium": 422,
		},
	}
	b, err := json.Marshal(foods)
	if err != nil {
		slog.Error("Failed to marshal canned foods", "error", err)
		return ""
	}
	// Models like to wrap their answer; keep the mock honest about that.
	return "```json\n" + string(b) + "\n```"
}

func cannedSuggestions() string {
	b, err := json.Marshal(map[string]any{
		"suggestions": []string{
			"Add a serving of leafy greens to close the fiber gap.",
			"Include a protein source such as eggs or lentils at dinner.",
			"Sodium is above goal; skip salty snacks for the rest of the day.",
		},
	})
	if err != nil {
		slog.Error("Failed to marshal canned suggestions", "error", err)
		return ""
	}
	return string(b)
}
