package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"nutrilookup"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModelID     = "gemini-2.0-flash"
	defaultMaxTokens   = 2048
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

var ErrEmptyResponse = errors.New("empty gemini response")

type ClientOpts struct {
	APIKey      string
	BaseURL     string
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
	HTTPClient  nutrilookup.HTTPClient
}

// Client generates text with the Gemini generateContent REST endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	config     generationConfig
	httpClient nutrilookup.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}

	return &Client{
		apiKey:   opts.APIKey,
		model:    opts.ModelID,
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(opts.BaseURL, "/"), url.PathEscape(opts.ModelID)),
		config: generationConfig{
			Temperature:     opts.Temperature,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxTokens,
		},
		httpClient: opts.HTTPClient,
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

type wireRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type wireResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer(nutrilookup.TracerNameGenerator).Start(ctx, "gemini.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("generator.model", c.model), attribute.Int("generator.prompt_len", len(prompt)))

	slog.Info("GENERATOR: Gemini invoked", "model", c.model, "prompt_len", len(prompt))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		slog.Error("GENERATOR: Gemini invoke failed", "model", c.model, "error", err)
		span.SetStatus(codes.Error, "gemini generate failed")
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.Int("generator.response_len", len(text)))
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(wireRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.config,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("LLM_CLIENT: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(raw))
	}

	var wr wireResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return "", fmt.Errorf("LLM_CLIENT: decode response: %w", err)
	}

	if wr.PromptFeedback != nil && wr.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", wr.PromptFeedback.BlockReason)
	}
	if len(wr.Candidates) == 0 || len(wr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	cand := wr.Candidates[0]
	if cand.FinishReason == "MAX_TOKENS" {
		slog.Warn("GENERATOR: Gemini hit maxOutputTokens; consider increasing MAX_TOKENS")
	}

	texts := make([]string, 0, len(cand.Content.Parts))
	for _, p := range cand.Content.Parts {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, ""), nil
}
