package preview

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/emitter"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/trace"
)

// Server exposes the renderer over HTTP so editors can preview generated
// files without writing them.
type Server struct {
	conf    *conf.Server
	set     *templates.Set
	emitter *emitter.Emitter
	agent   *trace.Agent
	engine  *gin.Engine
}

type Option func(s *Server)

// WithAgent traces requests with agent instead of the global otel provider.
func WithAgent(agent *trace.Agent) Option {
	return func(s *Server) {
		s.agent = agent
	}
}

func New(cfg *conf.Server, builder *entity.Builder, set *templates.Set, opts ...Option) *Server {
	if cfg == nil {
		cfg = conf.NewOptions()
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		conf:    cfg,
		set:     set,
		emitter: emitter.New(builder, set, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.initEngine()
	return s
}

func (s *Server) initEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(Recovery(), Telemetry(s.agent), RequestLog())

	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.GET("/templates", s.listTemplates)
	engine.POST("/render", s.render)
	engine.POST("/entities/:role", s.renderEntity)
	return engine
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.conf.Host, strconv.Itoa(s.conf.Port))
}

// Run serves until ctx is done, then shuts down gracefully within
// ExitWaitTimeout seconds.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{Addr: s.Addr(), Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("preview server listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "preview server")
	case <-ctx.Done():
	}

	timeout := time.Duration(s.conf.ExitWaitTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	logx.Infof("shutting down preview server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown preview server")
	}
	if s.agent != nil {
		return s.agent.Shutdown(shutdownCtx)
	}
	return nil
}
