// Package otel installs the process tracer provider for the site.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/uslusolutions/clinicweb/internal/platform/config"
)

// Settings select where CMS, CAPTCHA and mail spans are exported.
type Settings struct {
	Endpoint string `env:"CLINICWEB_OTEL_ENDPOINT"`
	Enabled  bool   `env:"CLINICWEB_OTEL_ENABLED"      envDefault:"true"`
	// SampleRatio outside (0, 1] samples every root span.
	SampleRatio float64 `env:"CLINICWEB_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether spans leave the process.
func (s Settings) Active() bool {
	return s.Enabled && strings.TrimSpace(s.Endpoint) != ""
}

// Setup reads Settings from the environment and installs the provider.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var settings Settings
	if err := config.ParseEnv(&settings); err != nil {
		return noop, err
	}
	return SetupWithSettings(ctx, serviceName, settings)
}

// SetupWithSettings installs a batching OTLP/HTTP provider for serviceName.
// Inactive settings leave the global no-op provider in place; spans are then
// created and dropped. The returned function flushes pending spans.
func SetupWithSettings(ctx context.Context, serviceName string, settings Settings) (func(context.Context) error, error) {
	if !settings.Active() {
		return noop, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(strings.TrimSpace(settings.Endpoint)))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(settings.SampleRatio)))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func sampleRatio(r float64) float64 {
	if r <= 0 || r > 1 {
		return 1
	}
	return r
}

func noop(context.Context) error { return nil }
