package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"nutrilookup"
)

const (
	defaultEndpoint = "http://localhost:11434"
	defaultModelID  = "llama3.2"

	defaultSystemPrompt = "You are a precise nutrition data service. Answer with JSON only."
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
	NumPredict    int     `json:"num_predict,omitempty"`
}

// Client generates text with a local Ollama server through its chat endpoint.
type Client struct {
	endpoint     string
	model        string
	systemPrompt string
	httpClient   nutrilookup.HTTPClient
	options      options
}

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	TopP         float64
	HTTPClient   nutrilookup.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if opts.BaseEndpoint == "" {
		opts.BaseEndpoint = defaultEndpoint
	}
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.2
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}

	return &Client{
		model:        opts.ModelID,
		systemPrompt: opts.SystemPrompt,
		httpClient:   opts.HTTPClient,
		endpoint:     strings.TrimRight(opts.BaseEndpoint, "/") + "/api/chat",
		options: options{
			Temperature:   opts.Temperature,
			TopP:          opts.TopP,
			RepeatPenalty: 1.05,
			NumCtx:        8192,
			NumPredict:    opts.MaxTokens,
		},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	Done    bool        `json:"done"`
	// other metadata omitted but available
}

// Generate sends prompt as a single user turn and returns the assistant content verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer(nutrilookup.TracerNameGenerator).Start(ctx, "ollama.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("generator.model", c.model), attribute.Int("generator.prompt_len", len(prompt)))

	slog.Info("GENERATOR: Ollama invoked", "model", c.model, "prompt_len", len(prompt))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		span.SetStatus(codes.Error, "ollama generate failed")
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.Int("generator.response_len", len(text)))
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := wireRequest{
		Model:    c.model,
		Messages: c.buildMessages(prompt),
		Stream:   false,
		Options:  c.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("LLM_CLIENT: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		slog.Warn("GENERATOR: Ollama decode failed, returning raw", "err", err, "body_len", len(body))
		return string(body), nil
	}

	return wr.Message.Content, nil
}

func (c *Client) buildMessages(prompt string) []wireMessage {
	messages := make([]wireMessage, 0, 2)
	if sp := strings.TrimSpace(c.systemPrompt); sp != "" {
		messages = append(messages, wireMessage{Role: "system", Content: sp})
	}
	return append(messages, wireMessage{Role: "user", Content: prompt})
}
