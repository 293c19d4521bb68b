package telemetry

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(Config{}).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(Config{Sampler: "never"}).Description())
	assert.Contains(t, sampler(Config{Sampler: "ratio", Ratio: 0.5}).Description(), "TraceIDRatioBased{0.5}")
}

func TestWithSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	ctx := context.Background()
	require.NoError(t, WithSpan(ctx, "workspace.reload", func(ctx context.Context) error {
		SetAttributes(ctx, attribute.Int("skills", 3))
		return nil
	}))
	err := WithSpan(ctx, "unit.relocate", func(context.Context) error {
		return errors.New("permission denied")
	}, attribute.String("unit", "pdf"))
	assert.EqualError(t, err, "permission denied")

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "workspace.reload", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("skills", 3))

	assert.Equal(t, "unit.relocate", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("unit", "pdf"))
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}
