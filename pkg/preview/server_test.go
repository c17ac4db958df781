package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestServer(t *testing.T) *Server {
	gin.SetMode(gin.TestMode)
	b, err := entity.NewBuilder(entity.Project{
		FileComment:       "// generated",
		ControllerPackage: "com.acme.web",
		ServicePackage:    "com.acme.service",
		RepositoryPackage: "com.acme.repository",
	})
	require.NoError(t, err)
	return New(conf.NewOptions(conf.WithHostPorts("127.0.0.1", 0)), b, templates.Default())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRender_OK(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/render", `{"template":"{{{header}}}\nclass {{entityClassName}} {}","context":{"header":"// generated","entityClassName":"Order"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "// generated\nclass Order {}", resp.Output)
}

func TestRender_MissingKey(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/render", `{"name":"greeting","template":"Hello {{name}}","context":{}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeMissingKey, resp.Code)
	assert.Equal(t, "name", resp.Key)
	assert.Equal(t, "greeting", resp.Template)
	require.NotNil(t, resp.Position)
	assert.Equal(t, 6, resp.Offset)
	assert.Equal(t, 1, resp.Line)
	assert.Equal(t, 7, resp.Column)
	assert.Contains(t, w.Body.String(), `"offset":6`)
}

func TestRender_Malformed(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/render", `{"template":"{{a{{b}}}}"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeMalformedPlaceholder, resp.Code)
	assert.Equal(t, 3, resp.Position.Offset)

	w = do(t, s, http.MethodPost, "/render", `{"template":"{{a"}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeUnterminatedPlaceholder, resp.Code)
}

func TestRender_BadJSON(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/render", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderEntity(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/entities/service", `{"name":"Order","package":"com.acme.domain","primaryKeyType":"String"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Path, "OrderService.java")
	assert.Contains(t, resp.Output, "package com.acme.service;")
	assert.Contains(t, resp.Output, "public Order findOne(String id) {")

	w = do(t, s, http.MethodPost, "/entities/dao", `{"name":"Order","package":"p"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/entities/service", `{"name":"Bad Name","package":"p"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderEntity_DisabledRole(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/entities/controller", `{"name":"Order","package":"com.acme.domain","exclude":["controller"]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeRoleDisabled, resp.Code)
	assert.Contains(t, resp.Message, "excluded by entity Order")

	b, err := entity.NewBuilder(entity.Project{RepositoryPackage: "com.acme.repository"})
	require.NoError(t, err)
	repoOnly := New(conf.NewOptions(), b, templates.Default())

	w = do(t, repoOnly, http.MethodPost, "/entities/controller", `{"name":"Order","package":"com.acme.domain"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeRoleDisabled, resp.Code)
	assert.Contains(t, resp.Message, "package is not configured")

	w = do(t, repoOnly, http.MethodPost, "/entities/repository", `{"name":"Order","package":"com.acme.domain"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTelemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	agent := trace.NewAgent("crudx-preview", trace.NoneExporter, trace.WithSpanProcessor(recorder))
	require.NoError(t, agent.Init())

	b, err := entity.NewBuilder(entity.Project{RepositoryPackage: "com.acme.repository"})
	require.NoError(t, err)
	s := New(conf.NewOptions(), b, templates.Default(), WithAgent(agent))

	w := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get(TraceIDHeader))
	assert.Empty(t, recorder.Ended())

	w = do(t, s, http.MethodPost, "/render", `{"name":"greeting","template":"Hi {{name}}"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "POST /render", span.Name())
	assert.Equal(t, span.SpanContext().TraceID().String(), w.Header().Get(TraceIDHeader))
	assert.Contains(t, span.Attributes(), attribute.String("crudx.template", "greeting"))
	assert.Contains(t, span.Attributes(), attribute.Int("http.status_code", http.StatusUnprocessableEntity))

	w = do(t, s, http.MethodPost, "/entities/repository", `{"name":"Order","package":"com.acme.domain"}`)
	require.Equal(t, http.StatusOK, w.Code)
	ended = recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "POST /entities/:role", ended[1].Name())
	assert.Contains(t, ended[1].Attributes(), attribute.String("crudx.template", "repository.java.tpl"))
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []TemplateInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, templates.Repository, resp[0].Role)
	assert.Contains(t, resp[2].Keys, "entityClassRequestMapping")
}

func TestRun_Shutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
