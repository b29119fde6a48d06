package bedrock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"nutrilookup"
)

const (
	// defaultModelID is an inference profile ID, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// Three full records plus a little slack fit comfortably.
	defaultMaxTokens = 2048

	// Low temperature and top_p keep JSON output consistent across calls.
	defaultTemperature = 0.2
	defaultTopP        = 0.9

	systemPrompt = "You are a precise nutrition data service. Answer with JSON only."
)

var (
	ErrMaxTokens = errors.New("model hit MaxTokens limit")
	ErrBlocked   = errors.New("model response blocked by Bedrock safety filters")
	ErrNoText    = errors.New("model returned no text")
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Client generates text through the Bedrock Converse API.
type Client struct {
	brc  bedrockRuntimeClient
	opts Options
}

func NewClient(brc bedrockRuntimeClient, opts Options) *Client {
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
		brc:  brc,
		opts: opts,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer(nutrilookup.TracerNameGenerator).Start(ctx, "bedrock.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("generator.model", c.opts.ModelID), attribute.Int("generator.prompt_len", len(prompt)))

	slog.Info("GENERATOR: Bedrock invoked", "model", c.opts.ModelID, "prompt_len", len(prompt))

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.opts.ModelID),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: systemPrompt}},
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("GENERATOR: Bedrock invoke failed", "error", err, "model", c.opts.ModelID)
		span.SetStatus(codes.Error, "bedrock converse failed")
		span.RecordError(err)
		return "", err
	}

	attrs := []any{"stop_reason", out.StopReason}
	if out.Metrics != nil {
		attrs = append(attrs, "latency_ms", aws.ToInt64(out.Metrics.LatencyMs))
	}
	if out.Usage != nil {
		attrs = append(attrs,
			"input_tokens", aws.ToInt32(out.Usage.InputTokens),
			"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
		)
		span.SetAttributes(
			attribute.Int("generator.input_tokens", int(aws.ToInt32(out.Usage.InputTokens))),
			attribute.Int("generator.output_tokens", int(aws.ToInt32(out.Usage.OutputTokens))),
		)
	}
	slog.Info("GENERATOR: Bedrock invoke succeeded", attrs...)

	switch out.StopReason {
	case types.StopReasonMaxTokens:
		slog.Warn("GENERATOR: Model hit MaxTokens limit; consider increasing MAX_TOKENS")
		err = ErrMaxTokens
	case types.StopReasonGuardrailIntervened, types.StopReasonContentFiltered:
		slog.Warn("GENERATOR: Model response blocked by Bedrock safety filters")
		err = ErrBlocked
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	text := textFromOutput(out)
	if text == "" {
		span.SetStatus(codes.Error, ErrNoText.Error())
		return "", fmt.Errorf("%w: stop reason %q", ErrNoText, out.StopReason)
	}
	return text, nil
}

// textFromOutput joins the assistant's text blocks with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}
