package trace

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/logx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	// NoneExporter still creates spans, so trace ids reach the request log,
	// but exports nothing.
	NoneExporter   = "none"
	StdoutExporter = "stdout"
)

type Agent struct {
	ServiceName    string
	TracerProvider trace.TracerProvider
	Propagators    propagation.TextMapPropagator

	writer   io.Writer
	exporter string
	provider *sdktrace.TracerProvider
}

type Option func(a *Agent)

// WithWriter sets where the stdout exporter prints spans, os.Stderr by
// default so rendered output on stdout stays clean.
func WithWriter(w io.Writer) Option {
	return func(a *Agent) {
		a.writer = w
	}
}

// WithSpanProcessor builds the agent around sp instead of an exporter.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(a *Agent) {
		a.provider = newProvider(a.ServiceName, sdktrace.WithSpanProcessor(sp))
	}
}

func NewAgent(serviceName, exporter string, opts ...Option) *Agent {
	a := &Agent{
		ServiceName: serviceName,
		exporter:    exporter,
		writer:      os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Init() error {
	if a.provider == nil {
		switch a.exporter {
		case "", NoneExporter:
			a.provider = newProvider(a.ServiceName)
		case StdoutExporter:
			exporter, err := stdouttrace.New(stdouttrace.WithWriter(a.writer))
			if err != nil {
				return errors.Wrapf(err, "failed to new %s exporter", a.exporter)
			}
			a.provider = newProvider(a.ServiceName, sdktrace.WithSyncer(exporter))
		default:
			return errors.Errorf("unsupported trace exporter %q, expected %s or %s", a.exporter, NoneExporter, StdoutExporter)
		}
	}

	a.TracerProvider = a.provider
	a.Propagators = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	otel.SetTracerProvider(a.TracerProvider)
	otel.SetTextMapPropagator(a.Propagators)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) { logx.Errorf("[otel agent] error: %v", err) }))
	return nil
}

// Shutdown flushes pending spans.
func (a *Agent) Shutdown(ctx context.Context) error {
	if a.provider == nil {
		return nil
	}
	return errors.WithStack(a.provider.Shutdown(ctx))
}

func newProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	opts = append(opts,
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service", serviceName))),
	)
	return sdktrace.NewTracerProvider(opts...)
}
