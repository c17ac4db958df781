package conf

type Server struct {
	Name            string `yaml:"name" env:"SERVER_NAME" env-default:"crudx-preview"`
	Host            string `yaml:"host" env:"SERVER_HOST" env-default:"127.0.0.1"`
	Port            int    `yaml:"port" env:"SERVER_PORT" env-default:"8321"`
	Release         bool   `yaml:"release" env:"SERVER_RELEASE"`
	ExitWaitTimeout int    `yaml:"exit_wait_timeout" env:"SERVER_EXIT_WAIT_TIMEOUT" env-default:"5"`
	// TraceExporter is none or stdout
	TraceExporter string `yaml:"trace_exporter" env:"SERVER_TRACE_EXPORTER" env-default:"none"`
}

type Option func(s *Server)

func NewOptions(options ...Option) *Server {
	conf := &Server{
		Name:            "crudx-preview",
		Host:            "127.0.0.1",
		Port:            8321,
		ExitWaitTimeout: 5,
		TraceExporter:   "none",
	}

	for _, op := range options {
		op(conf)
	}

	return conf
}

func WithName(name string) Option {
	return func(s *Server) {
		s.Name = name
	}
}

func WithHostPorts(host string, port int) Option {
	return func(s *Server) {
		s.Host = host
		s.Port = port
	}
}

func WithGraceExitTime(timeout int) Option {
	return func(s *Server) {
		s.ExitWaitTimeout = timeout
	}
}

func WithRelease() Option {
	return func(s *Server) {
		s.Release = true
	}
}

func WithTraceExporter(exporter string) Option {
	return func(s *Server) {
		s.TraceExporter = exporter
	}
}
