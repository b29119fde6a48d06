// Package extract recovers a JSON payload from free text produced by a generative model.
//
// Models wrap JSON in markdown fences, lead with prose, or trail explanations after the payload.
// The extractor drops fence delimiters, tries the whole text, then falls back to slicing from the
// first opening bracket to the last closing bracket. Text that holds more than one bracketed region
// (JSON plus a bracketed aside) can be mis-sliced; that limitation is kept as is.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no value of the requested shape can be recovered.
var ErrNoJSON = errors.New("no JSON payload found")

// fencePattern matches a code fence delimiter and its optional language tag.
var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// Array returns the first JSON array embedded in text.
func Array(text string) ([]any, error) {
	v, err := extract(text, '[', ']')
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %s, want array", ErrNoJSON, kind(v))
	}
	return arr, nil
}

// Object returns the first JSON object embedded in text.
func Object(text string) (map[string]any, error) {
	v, err := extract(text, '{', '}')
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %s, want object", ErrNoJSON, kind(v))
	}
	return obj, nil
}

// StripFences removes every code fence delimiter, leaving the fenced content in place.
func StripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

func extract(text string, open, close byte) (any, error) {
	cleaned := strings.TrimSpace(StripFences(text))
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty text", ErrNoJSON)
	}

	// 1) Whole string
	var whole any
	if err := json.Unmarshal([]byte(cleaned), &whole); err == nil && hasShape(whole, open) {
		return whole, nil
	}

	// 2) First open .. last close
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no %c..%c region", ErrNoJSON, open, close)
	}

	var sliced any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &sliced); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return sliced, nil
}

func hasShape(v any, open byte) bool {
	switch v.(type) {
	case []any:
		return open == '['
	case map[string]any:
		return open == '{'
	default:
		return false
	}
}

func kind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
