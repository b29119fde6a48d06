package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joeshaw/envdecode"

	"nutrilookup"
	"nutrilookup/generator"
	"nutrilookup/lookup"
	"nutrilookup/tools"
)

type Results struct {
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Output    map[string]any `json:"output"`
}

func main() {
	ctx := context.Background()

	var genConfig nutrilookup.GeneratorConfig
	if err := envdecode.Decode(&genConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var svcConfig nutrilookup.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	tracerProvider, meterProvider, _, err := nutrilookup.InitOtel(ctx)
	if err != nil {
		log.Fatalf("SETUP: Failed to initialize OpenTelemetry: %s", err)
	}

	gen, err := generator.New(ctx, genConfig, http.DefaultClient)
	if err != nil {
		log.Fatalf("SETUP: Failed to create generator: %s", err)
	}

	svc := lookup.NewInstrumentedService(
		lookup.NewService(gen, nutrilookup.NewStdoutExchangeLogger(), lookup.Options{
			Density:        svcConfig.MillilitreDensity,
			MaxSuggestions: svcConfig.MaxSuggestions,
			MaxMeals:       svcConfig.MaxMeals,
		}),
		meterProvider.Meter("nutrilookup"),
	)

	registry, err := tools.NewRegistry(svc)
	if err != nil {
		log.Fatalf("SETUP: Failed to create tool registry: %s", err)
	}
	slog.Info("SETUP: Tool registry initialized", "tools", len(registry.GetTools()), "backend", genConfig.Backend)

	fn := func(ctx context.Context, call tools.Call) (Results, error) {
		// Lambda freezes the process between invocations; push telemetry out before returning.
		defer func() {
			if err := tracerProvider.ForceFlush(ctx); err != nil {
				slog.Error("SETUP: Failed to flush traces", "error", err)
			}
			if err := meterProvider.ForceFlush(ctx); err != nil {
				slog.Error("SETUP: Failed to flush metrics", "error", err)
			}
		}()

		runCtx, cancel := nutrilookup.WithTimeout(ctx, genConfig.Timeout)
		defer cancel()

		tool, err := registry.GetTool(call.Name)
		if err != nil {
			slog.Error("RESULT: Unknown tool", "name", call.Name)
			return Results{}, err
		}

		out, err := tool.Run(runCtx, call.Input)
		if err != nil {
			slog.Error("RESULT: Tool failed", "name", call.Name, "error", err, "status", lookup.StatusCode(err))
			return Results{}, err
		}

		return Results{ToolUseID: call.ToolUseID, Output: out}, nil
	}

	lambda.Start(fn)
}
