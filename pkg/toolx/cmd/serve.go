package cmd

import (
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/preview"
	"github.com/shrewx/crudx/pkg/trace"
	"github.com/spf13/cobra"
)

func Serve() *cobra.Command {
	var (
		configFile string
		host       string
		port       int
		exporter   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the preview http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := Setup(configFile)
			if err != nil {
				return err
			}

			server := rt.Conf.Server
			if cmd.Flags().Changed("host") {
				server.Host = host
			}
			if cmd.Flags().Changed("port") {
				server.Port = port
			}

			if cmd.Flags().Changed("trace") {
				server.TraceExporter = exporter
			}

			agent := trace.NewAgent(server.Name, server.TraceExporter)
			if err := agent.Init(); err != nil {
				return err
			}

			ctx, cancel := SignalContext()
			defer cancel()
			return preview.New(&server, rt.Builder, rt.Set, preview.WithAgent(agent)).Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "f", conf.DefaultConfig, "config file path")
	cmd.Flags().StringVar(&host, "host", "", "listen host, overrides server.host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port, overrides server.port")
	cmd.Flags().StringVar(&exporter, "trace", "", "trace exporter (none or stdout), overrides server.trace_exporter")
	return cmd
}
