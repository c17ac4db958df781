package templates

import (
	_ "embed"
)

//go:embed java/controller.java.tpl
var ControllerTemplate string

//go:embed java/service.java.tpl
var ServiceTemplate string

//go:embed java/repository.java.tpl
var RepositoryTemplate string

// FileSuffix is the extension of template files in an override directory.
const FileSuffix = ".java.tpl"

func source(role Role) string {
	switch role {
	case Controller:
		return ControllerTemplate
	case Service:
		return ServiceTemplate
	case Repository:
		return RepositoryTemplate
	}
	return ""
}
