package client

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/gollm"
	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/mocks"
)

func TestNewMetricsRegistersOnSuppliedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	assert.Same(t, registry, m.Registry())

	m.RequestsTotal.WithLabelValues("openai", "gpt-4o").Inc()
	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "nanograph_client_requests_total")
}

func TestNewMetricsNilRegistryIsPrivate(t *testing.T) {
	// two instances must not collide on duplicate collectors
	a := NewMetrics(nil)
	b := NewMetrics(nil)
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestGenerateRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	mock := mocks.NewMockLLMWithConfig("openai", "gpt-4o", func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		return "ok", nil
	})
	r := NewResource(mock, ModeToolCall, zap.NewNop(), m)

	_, err := r.Generate(context.Background(), &gollm.Prompt{})
	require.NoError(t, err)

	got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("openai", "gpt-4o"))
	assert.Equal(t, float64(1), got)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("generate")))
}

func TestGenerateCountsErrors(t *testing.T) {
	m := NewMetrics(nil)
	mock := mocks.NewMockLLMWithConfig("openai", "gpt-4o", func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		return "", context.DeadlineExceeded
	})
	r := NewResource(mock, ModeToolCall, zap.NewNop(), m)

	_, err := r.Generate(context.Background(), &gollm.Prompt{})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("generate")))
}
