package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	template string
	contexts []string
	sets     []string
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template file")
	cmd.Flags().StringSliceVarP(&f.contexts, "context", "c", nil, "context file (yaml, json or toml), may repeat")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "context entry key=value, may repeat")
	_ = cmd.MarkFlagRequired("template")
}

func (f *renderFlags) load() (*tmpl.Template, tmpl.Context, error) {
	content, err := os.ReadFile(f.template)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	t, err := tmpl.ParseNamed(f.template, string(content))
	if err != nil {
		return nil, nil, err
	}
	ctx, err := BuildContext(f.contexts, f.sets)
	if err != nil {
		return nil, nil, err
	}
	return t, ctx, nil
}

func Render() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render one template with a context",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ctx, err := flags.load()
			if err != nil {
				return err
			}
			if output == "" {
				return t.Execute(cmd.OutOrStdout(), ctx)
			}

			out, err := t.Render(ctx)
			if err != nil {
				return err
			}
			return errors.WithStack(os.WriteFile(output, []byte(out), 0644))
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func Check() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "list the keys a context is missing for a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ctx, err := flags.load()
			if err != nil {
				return err
			}

			missing := t.Missing(ctx)
			if len(missing) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("ok"), t.Name())
				return nil
			}
			for _, key := range missing {
				fmt.Fprintln(cmd.OutOrStdout(), color.RedString("missing"), key)
			}
			return errors.Errorf("%s: %d missing keys", t.Name(), len(missing))
		},
	}
	flags.bind(cmd)
	return cmd
}
