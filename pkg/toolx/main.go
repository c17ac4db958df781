package main

import (
	"fmt"
	"os"

	"github.com/shrewx/crudx/pkg/toolx/cmd"
	"github.com/shrewx/crudx/pkg/toolx/cmd/gen"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "toolx",
	Short:         "generate CRUD layer sources from entity metadata",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(gen.CmdGen)
	rootCmd.AddCommand(cmd.Init())
	rootCmd.AddCommand(cmd.Render())
	rootCmd.AddCommand(cmd.Check())
	rootCmd.AddCommand(cmd.Schema())
	rootCmd.AddCommand(cmd.Serve())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
