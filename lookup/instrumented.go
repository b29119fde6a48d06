package lookup

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"nutrilookup/nutrition"
)

// InstrumentedService is a Service that also records lookup and suggestion metrics.
type InstrumentedService struct {
	svc *Service

	lookups          metric.Int64Counter
	lookupsFailed    metric.Int64Counter
	suggestions      metric.Int64Counter
	suggestionsFail  metric.Int64Counter
	lookupDuration   metric.Float64Histogram
	suggestDuration  metric.Float64Histogram
	lookupRecords    metric.Int64Gauge
	suggestionsCount metric.Int64Gauge
}

// NewInstrumentedService wraps svc with counters, histograms and gauges created from meter.
func NewInstrumentedService(svc *Service, meter metric.Meter) *InstrumentedService {
	lookups, _ := meter.Int64Counter("lookups_total",
		metric.WithDescription("Total number of food lookups started"))
	lookupsFailed, _ := meter.Int64Counter("lookups_failed_total",
		metric.WithDescription("Total number of food lookups that failed"))
	suggestions, _ := meter.Int64Counter("suggestions_total",
		metric.WithDescription("Total number of suggestion requests started"))
	suggestionsFail, _ := meter.Int64Counter("suggestions_failed_total",
		metric.WithDescription("Total number of suggestion requests that failed"))

	lookupDuration, _ := meter.Float64Histogram("lookup_duration_seconds",
		metric.WithDescription("Duration of a food lookup including the generator call, in seconds"))
	suggestDuration, _ := meter.Float64Histogram("suggest_duration_seconds",
		metric.WithDescription("Duration of a suggestion request including the generator call, in seconds"))

	lookupRecords, _ := meter.Int64Gauge("lookup_records_count",
		metric.WithDescription("Number of records returned by the latest lookup"))
	suggestionsCount, _ := meter.Int64Gauge("suggestions_count",
		metric.WithDescription("Number of suggestions returned by the latest request"))

	return &InstrumentedService{
		svc:              svc,
		lookups:          lookups,
		lookupsFailed:    lookupsFailed,
		suggestions:      suggestions,
		suggestionsFail:  suggestionsFail,
		lookupDuration:   lookupDuration,
		suggestDuration:  suggestDuration,
		lookupRecords:    lookupRecords,
		suggestionsCount: suggestionsCount,
	}
}

func (s *InstrumentedService) Lookup(ctx context.Context, query string) ([]nutrition.Record, error) {
	s.lookups.Add(ctx, 1)
	start := time.Now()

	records, err := s.svc.Lookup(ctx, query)

	outcome := outcomeAttr(err)
	s.lookupDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(outcome))
	if err != nil {
		s.lookupsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", ErrorType(err))))
		return nil, err
	}

	s.lookupRecords.Record(ctx, int64(len(records)))
	return records, nil
}

func (s *InstrumentedService) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	s.suggestions.Add(ctx, 1)
	start := time.Now()

	out, err := s.svc.Suggest(ctx, req)

	s.suggestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(outcomeAttr(err)))
	if err != nil {
		s.suggestionsFail.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", ErrorType(err))))
		return nil, err
	}

	s.suggestionsCount.Record(ctx, int64(len(out)))
	return out, nil
}

func outcomeAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}
