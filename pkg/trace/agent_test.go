package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestAgent_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	agent := NewAgent("crudx-test", StdoutExporter, WithWriter(&buf))
	require.NoError(t, agent.Init())

	_, span := agent.TracerProvider.Tracer("test").Start(context.Background(), "render OrderService")
	span.End()
	require.NoError(t, agent.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"render OrderService"`)
	assert.Contains(t, buf.String(), "crudx-test")
}

func TestAgent_SpanProcessor(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	agent := NewAgent("crudx-test", NoneExporter, WithSpanProcessor(recorder))
	require.NoError(t, agent.Init())

	_, span := agent.TracerProvider.Tracer("test").Start(context.Background(), "emit")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "emit", ended[0].Name())
	assert.True(t, ended[0].SpanContext().HasTraceID())
}

func TestAgent_UnknownExporter(t *testing.T) {
	assert.Error(t, NewAgent("crudx-test", "zipkin").Init())
}
