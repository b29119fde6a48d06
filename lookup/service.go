package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nutrilookup"
	"nutrilookup/extract"
	"nutrilookup/nutrition"
)

const (
	defaultMaxSuggestions = 6
	defaultMaxMeals       = 10
)

// Options tunes the pipelines. Zero values fall back to defaults.
type Options struct {
	// Density is the g/mL factor applied to volume quantities in queries.
	Density        float64
	MaxSuggestions int
	MaxMeals       int
}

// SuggestRequest is the input of the suggestion pipeline.
type SuggestRequest struct {
	Totals map[string]float64 `json:"totalNutrients"`
	Goals  map[string]float64 `json:"dailyGoals"`
	Meals  []nutrition.Record `json:"meals,omitempty"`
}

// Service runs the food lookup and suggestion pipelines against a generator.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	gen    nutrilookup.Generator
	logger nutrilookup.ExchangeLogger
	opts   Options
}

// NewService initializes a new service.
func NewService(gen nutrilookup.Generator, log nutrilookup.ExchangeLogger, opts Options) *Service {
	if opts.Density <= 0 {
		opts.Density = nutrition.DefaultDensity
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = defaultMaxSuggestions
	}
	if opts.MaxMeals <= 0 {
		opts.MaxMeals = defaultMaxMeals
	}
	if log == nil {
		log = nutrilookup.NewNoOpExchangeLogger()
	}
	return &Service{
		gen:    gen,
		logger: log,
		opts:   opts,
	}
}

// Lookup turns a free-text food query such as "banana 150g" into nutrient records.
// When the query names an amount, every record is scaled to it.
func (s *Service) Lookup(ctx context.Context, query string) ([]nutrition.Record, error) {
	ctx, span := otel.Tracer(nutrilookup.TracerNameLookup).Start(ctx, "Service.Lookup")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		err := fmt.Errorf("%w: query is required", ErrValidation)
		recordSpanError(span, err)
		return nil, err
	}

	qty := nutrition.ParseQuantityWithDensity(query, s.opts.Density)
	description := qty.Remainder
	if description == "" {
		description = strings.TrimSpace(query)
	}

	span.SetAttributes(
		attribute.String("lookup.description", description),
		attribute.Bool("lookup.has_quantity", qty.HasGrams()),
	)
	slog.Info("LOOKUP: Starting lookup", "query", query, "description", description, "has_quantity", qty.HasGrams())

	ex := s.newExchange(ctx, "lookup", query)
	ex.Prompt = NewLookupPrompt(description)

	raw, err := s.generate(ctx, &ex)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	items, err := extract.Array(raw)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUpstreamFormat, err)
		s.finish(&ex, 0, err)
		recordSpanError(span, err)
		return nil, err
	}

	records := nutrition.NormalizeAll(items, query)
	if dropped := len(items) - len(records); dropped > 0 {
		slog.Warn("LOOKUP: Dropped non-object entries", "dropped", dropped, "kept", len(records))
	}

	if qty.HasGrams() {
		grams, display, unit := *qty.Grams, qty.BaseAmount(), *qty.Unit
		for i := range records {
			records[i] = nutrition.ScaleWithDensity(records[i], grams, display, unit, s.opts.Density)
		}
		slog.Info("LOOKUP: Scaled records", "grams", grams, "amount", display, "unit", unit, "records", len(records))
	}

	s.finish(&ex, len(records), nil)
	span.SetAttributes(attribute.Int("lookup.records", len(records)))
	slog.Info("LOOKUP: Lookup complete", "query", query, "records", len(records))

	return records, nil
}

// Suggest asks the generator for prioritized, human readable suggestions from today's totals and goals.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	ctx, span := otel.Tracer(nutrilookup.TracerNameLookup).Start(ctx, "Service.Suggest")
	defer span.End()

	if len(req.Totals) == 0 || len(req.Goals) == 0 {
		err := fmt.Errorf("%w: totalNutrients and dailyGoals are required", ErrValidation)
		recordSpanError(span, err)
		return nil, err
	}

	if len(req.Meals) > s.opts.MaxMeals {
		req.Meals = req.Meals[:s.opts.MaxMeals]
	}

	slog.Info("LOOKUP: Starting suggestions", "totals", len(req.Totals), "goals", len(req.Goals), "meals", len(req.Meals))

	ex := s.newExchange(ctx, "suggest", "")
	ex.Prompt = NewSuggestPrompt(req, s.opts.MaxSuggestions)

	raw, err := s.generate(ctx, &ex)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	obj, err := extract.Object(raw)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSchema, err)
		s.finish(&ex, 0, err)
		recordSpanError(span, err)
		return nil, err
	}

	list, ok := obj["suggestions"].([]any)
	if !ok {
		err := fmt.Errorf("%w: %q is not an array", ErrSchema, "suggestions")
		s.finish(&ex, 0, err)
		recordSpanError(span, err)
		return nil, err
	}

	suggestions := coerceSuggestions(list, s.opts.MaxSuggestions)

	s.finish(&ex, len(suggestions), nil)
	span.SetAttributes(attribute.Int("suggest.count", len(suggestions)))
	slog.Info("LOOKUP: Suggestions complete", "received", len(list), "kept", len(suggestions))

	return suggestions, nil
}

// generate performs the single generator call of a request. Errors, including a context that
// expired while the generator was running, are wrapped in ErrGenerator.
func (s *Service) generate(ctx context.Context, ex *nutrilookup.Exchange) (string, error) {
	start := time.Now()
	raw, err := s.gen.Generate(ctx, ex.Prompt)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	ex.DurationMs = time.Since(start).Milliseconds()
	ex.Response = raw

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGenerator, err)
		slog.Error("LOOKUP: Generator call failed", "operation", ex.Operation, "error", err, "duration_ms", ex.DurationMs)
		s.finish(ex, 0, err)
		return "", err
	}

	slog.Info("LOOKUP: Generator responded", "operation", ex.Operation, "response_length", len(raw), "duration_ms", ex.DurationMs)
	return raw, nil
}

func (s *Service) newExchange(ctx context.Context, op, input string) nutrilookup.Exchange {
	id := nutrilookup.RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	return nutrilookup.Exchange{
		ID:        id,
		Operation: op,
		Timestamp: time.Now(),
		Input:     input,
	}
}

// finish records the outcome of an exchange using the configured logger, handling errors gracefully
func (s *Service) finish(ex *nutrilookup.Exchange, records int, err error) {
	ex.Records = records
	if err != nil {
		ex.Error = err.Error()
	}
	if lerr := s.logger.LogExchange(*ex); lerr != nil {
		slog.Error("Failed to log generator exchange", "error", lerr, "id", ex.ID)
	}
}

// coerceSuggestions turns raw entries into trimmed, non-blank strings, keeping order and at most limit entries.
func coerceSuggestions(raw []any, limit int) []string {
	out := make([]string, 0, min(len(raw), limit))
	for _, item := range raw {
		if len(out) == limit {
			break
		}

		var text string
		switch v := item.(type) {
		case nil:
			continue
		case string:
			text = v
		case float64:
			text = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			text = strconv.FormatBool(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			text = string(b)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

func recordSpanError(span trace.Span, err error) {
	span.SetStatus(codes.Error, ErrorType(err))
	span.RecordError(err)
}
