package gen

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/emitter"
	"github.com/shrewx/crudx/pkg/toolx/cmd"
	"github.com/spf13/cobra"
)

func crudCommand() *cobra.Command {
	var (
		configFile string
		outputDir  string
		overwrite  string
		dryRun     bool
		tree       bool
	)
	c := &cobra.Command{
		Use:   "crud",
		Short: "generate controller, service and repository files for every entity",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := cmd.Setup(configFile)
			if err != nil {
				return err
			}
			if outputDir != "" {
				rt.Conf.OutputDir = outputDir
			}
			if overwrite != "" {
				rt.Conf.Overwrite = conf.OverwritePolicy(overwrite)
				if err := rt.Conf.Overwrite.Validate(); err != nil {
					return err
				}
			}

			ctx, cancel := cmd.SignalContext()
			defer cancel()

			entities, err := rt.Entities(ctx)
			if err != nil {
				return err
			}
			if len(entities) == 0 {
				return errors.New("no entities configured or discovered")
			}

			var writer emitter.Writer = emitter.NewDirWriter(rt.Conf.OutputDir, rt.Conf.Overwrite)
			mem := emitter.NewMemWriter()
			if dryRun {
				writer = mem
			}

			e := emitter.New(rt.Builder, rt.Set, writer, emitter.WithConcurrency(rt.Conf.Concurrency))
			report, err := e.Emit(ctx, entities)
			if report != nil {
				cmd.PrintReport(c.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}

			if dryRun {
				for _, p := range mem.Paths() {
					content, _ := mem.File(p)
					fmt.Fprintf(c.OutOrStdout(), "\n// ---- %s\n%s\n", p, content)
				}
			} else if tree {
				fmt.Fprintf(c.OutOrStdout(), "\n%s/\n", rt.Conf.OutputDir)
				cmd.PrintTree(c.OutOrStdout(), rt.Conf.OutputDir, "")
			}
			return report.Err()
		},
	}

	c.Flags().StringVarP(&configFile, "config", "f", conf.DefaultConfig, "config file path")
	c.Flags().StringVarP(&outputDir, "output", "o", "", "output directory, overrides output_dir")
	c.Flags().StringVar(&overwrite, "overwrite", "", "fail, skip or overwrite existing files")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print generated files instead of writing them")
	c.Flags().BoolVar(&tree, "tree", false, "print the output directory tree afterwards")
	return c
}
