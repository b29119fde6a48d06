// Package generator selects and builds the text generation backend named in configuration.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"nutrilookup"
	"nutrilookup/generator/bedrock"
	"nutrilookup/generator/gemini"
	"nutrilookup/generator/mock"
	"nutrilookup/generator/ollama"
)

const (
	BackendGemini  = "gemini"
	BackendBedrock = "bedrock"
	BackendOllama  = "ollama"
	BackendMock    = "mock"
)

// New returns the backend selected by cfg.Backend. A nil httpClient gets a default http.Client.
func New(ctx context.Context, cfg nutrilookup.GeneratorConfig, httpClient nutrilookup.HTTPClient) (nutrilookup.Generator, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	slog.Info("SETUP: Creating generator", "backend", backend, "model", cfg.ModelID)

	switch backend {
	case BackendGemini, "":
		c, err := gemini.NewClient(gemini.ClientOpts{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			ModelID:     cfg.ModelID,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			HTTPClient:  httpClient,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case BackendBedrock:
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.Options{
			ModelID:     cfg.ModelID,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
		}), nil

	case BackendOllama:
		c, err := ollama.NewClient(ollama.ClientOpts{
			BaseEndpoint: cfg.OllamaEndpoint,
			ModelID:      cfg.ModelID,
			MaxTokens:    int(cfg.MaxTokens),
			Temperature:  float64(cfg.Temperature),
			TopP:         float64(cfg.TopP),
			HTTPClient:   httpClient,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case BackendMock:
		return mock.NewGenerator(), nil

	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}
