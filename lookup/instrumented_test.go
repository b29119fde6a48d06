package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"nutrilookup/generator/mock"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestInstrumentedService(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("lookup-test")

	gen := mock.NewGenerator(bananaResponse, "not json", `{"suggestions":["a","b"]}`)
	svc := NewInstrumentedService(NewService(gen, nil, Options{}), meter)
	ctx := context.Background()

	records, err := svc.Lookup(ctx, "banana 150g")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = svc.Lookup(ctx, "banana")
	assert.ErrorIs(t, err, ErrUpstreamFormat)

	suggestions, err := svc.Suggest(ctx, sampleSuggestRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, suggestions)

	metrics := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, metrics["lookups_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["lookups_failed_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["suggestions_total"]))
	assert.Contains(t, metrics, "lookup_duration_seconds")
	assert.Contains(t, metrics, "suggest_duration_seconds")

	gauge, ok := metrics["suggestions_count"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2), gauge.DataPoints[0].Value)
}
