package preview

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shrewx/crudx/pkg/logx"
	ptrace "github.com/shrewx/crudx/pkg/trace"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	otrace "go.opentelemetry.io/otel/trace"
)

const (
	TracerName    = "github.com/shrewx/crudx/preview"
	TraceIDHeader = "X-Trace-Id"
)

// 不追踪的路径
var untracedPaths = map[string]bool{"/healthz": true}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		logx.Errorf("panic recovered: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Code: CodeInternal, Message: "internal error"})
	})
}

// Telemetry opens a server span per request, named after the matched route,
// and returns its trace id in the X-Trace-Id header.
func Telemetry(agent *ptrace.Agent) gin.HandlerFunc {
	provider, propagators := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	serviceName := ""
	if agent != nil {
		serviceName = agent.ServiceName
		if agent.TracerProvider != nil {
			provider = agent.TracerProvider
		}
		if agent.Propagators != nil {
			propagators = agent.Propagators
		}
	}
	tracer := provider.Tracer(TracerName, otrace.WithInstrumentationVersion("0.0.1"))

	return func(c *gin.Context) {
		if untracedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		savedCtx := c.Request.Context()
		defer func() {
			c.Request = c.Request.WithContext(savedCtx)
		}()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := propagators.Extract(savedCtx, propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			otrace.WithAttributes(semconv.HTTPServerAttributesFromHTTPRequest(serviceName, route, c.Request)...),
			otrace.WithSpanKind(otrace.SpanKindServer),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPAttributesFromHTTPStatusCode(status)...)
		span.SetStatus(semconv.SpanStatusFromHTTPStatusCodeAndSpanKind(status, otrace.SpanKindServer))
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("gin.errors", c.Errors.String()))
		}
		if v, ok := c.Get(templateKey); ok {
			span.SetAttributes(attribute.String("crudx.template", v.(string)))
		}
	}
}

func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if sc := otrace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		logx.WithFields(fields).Debug("request")
	}
}
