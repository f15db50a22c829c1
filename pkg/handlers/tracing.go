package handlers

import (
	"net/http"

	"go-evelink/pkg/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// TracingMiddleware wraps handlers in an otelhttp server span; it is a no-op
// when ENABLE_TELEMETRY is false.
func TracingMiddleware(serviceName string) func(http.Handler) http.Handler {
	if !config.TelemetryEnabled() {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return otelhttp.NewMiddleware(
		serviceName,
		otelhttp.WithTracerProvider(otel.GetTracerProvider()),
		otelhttp.WithPropagators(otel.GetTextMapPropagator()),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}
