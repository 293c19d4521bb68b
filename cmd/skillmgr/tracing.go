package main

import (
	"context"
	"time"

	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"github.com/jingkaihe/skillmgr/pkg/version"
)

const (
	serviceName            = "skillmgr"
	tracingShutdownTimeout = 5 * time.Second
)

var shutdownTracer telemetry.ShutdownFunc

// tracingConfig names the exported resource after the binary and its build
func tracingConfig(cfg telemetry.Config) telemetry.Config {
	cfg.ServiceName = serviceName
	cfg.ServiceVersion = version.Get().Version
	return cfg
}

// initTracing installs the tracer provider for the rest of the process
func initTracing(ctx context.Context, cfg telemetry.Config) error {
	shutdown, err := telemetry.Init(ctx, tracingConfig(cfg))
	if err != nil {
		return err
	}
	shutdownTracer = shutdown
	return nil
}

// shutdownTracing flushes pending spans. It is safe to call more than once.
func shutdownTracing(ctx context.Context) {
	if shutdownTracer == nil {
		return
	}
	shutdown := shutdownTracer
	shutdownTracer = nil

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tracingShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to shut down tracing")
	}
}
