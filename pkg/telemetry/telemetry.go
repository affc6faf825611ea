// Package telemetry configures OpenTelemetry tracing through the Honeycomb
// distribution. Exporter endpoints and keys come from the standard OTEL_* and
// HONEYCOMB_* environment variables.
package telemetry

import (
	"github.com/andrenbrandao/rinha-ledger/pkg/config"
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
)

// Setup installs the global tracer provider. The returned function flushes
// and shuts it down; it is a no-op when telemetry is disabled.
func Setup(cfg config.Telemetry) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	// copies baggage entries onto every span started below a request
	bsp := honeycomb.NewBaggageSpanProcessor()

	return otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(cfg.ServiceName),
		otelconfig.WithSpanProcessor(bsp),
	)
}
