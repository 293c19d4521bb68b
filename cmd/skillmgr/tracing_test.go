package main

import (
	"context"
	"testing"

	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"github.com/jingkaihe/skillmgr/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingConfigNamesResource(t *testing.T) {
	old := version.Version
	version.Version = "0.4.2"
	t.Cleanup(func() { version.Version = old })

	cfg := tracingConfig(telemetry.Config{Enabled: true, Sampler: "ratio", Ratio: 0.5})
	assert.Equal(t, "skillmgr", cfg.ServiceName)
	assert.Equal(t, "0.4.2", cfg.ServiceVersion)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "ratio", cfg.Sampler)
	assert.Equal(t, 0.5, cfg.Ratio)
}

func TestShutdownTracingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, initTracing(ctx, telemetry.Config{}))
	require.NotNil(t, shutdownTracer)

	shutdownTracing(ctx)
	assert.Nil(t, shutdownTracer)
	shutdownTracing(ctx)
}
