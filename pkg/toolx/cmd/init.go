package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/spf13/cobra"
)

const sampleConfigTemplate = `output_dir: {{outputDir}}
overwrite: fail
concurrency: 4
template_dir: {{templateDir}}

project:
  file_comment: "/*\n * Generated by crudx\n */"
  controller_package: {{basePackage}}.controller
  service_package: {{basePackage}}.service
  repository_package: {{basePackage}}.repository
  base_repository: CrudRepository
  primary_key_type: Long

entities:
  - name: User
    package: {{basePackage}}.domain

log:
  to_stdout: true
  log_level: info

server:
  host: 127.0.0.1
  port: 8321
`

func Init() *cobra.Command {
	var (
		basePackage     string
		outputDir       string
		exportTemplates bool
	)
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "write a sample crudx.yaml, optionally with editable copies of the built-in templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			templateDir := `""`
			if exportTemplates {
				templateDir = "templates"
				for _, role := range templates.Roles() {
					t, err := templates.Default().Get(role)
					if err != nil {
						return err
					}
					if err := generateFile(filepath.Join(root, templateDir, role.FileName()), t.Source()); err != nil {
						return err
					}
				}
			}

			content, err := tmpl.Render("crudx.yaml", sampleConfigTemplate, tmpl.Context{
				"outputDir":   outputDir,
				"templateDir": templateDir,
				"basePackage": basePackage,
			})
			if err != nil {
				return err
			}
			if err := generateFile(filepath.Join(root, conf.DefaultConfig), content); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", root)
			PrintTree(cmd.OutOrStdout(), root, "")
			return nil
		},
	}
	cmd.Flags().StringVarP(&basePackage, "package", "p", "com.example", "base java package")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "src/main/java", "output directory written into the config")
	cmd.Flags().BoolVar(&exportTemplates, "templates", false, "export the built-in templates for editing")
	return cmd
}

func generateFile(filePath, content string) error {
	// 检查文件是否已存在
	if _, err := os.Stat(filePath); err == nil {
		return errors.Errorf("file already exists: %s", filePath)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(filePath, []byte(content), 0644))
}
