package cmd

import (
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func Schema() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "discover entities from the configured database and print them as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := Setup(configFile)
			if err != nil {
				return err
			}
			if !rt.Conf.Schema.Enabled() {
				return errors.New("schema.db.type is not configured")
			}

			ctx, cancel := SignalContext()
			defer cancel()

			entities, err := schema.Scan(ctx, rt.Conf.Schema, rt.Conf.Project.PrimaryKeyType)
			if err != nil {
				return err
			}

			out := struct {
				Entities []conf.Entity `yaml:"entities"`
			}{}
			for _, e := range entities {
				out.Entities = append(out.Entities, conf.Entity{
					Name:           e.Name,
					Package:        e.Package,
					PrimaryKeyType: e.PrimaryKeyType,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return errors.WithStack(err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "f", conf.DefaultConfig, "config file path")
	return cmd
}
