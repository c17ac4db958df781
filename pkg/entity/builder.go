package entity

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/shrewx/crudx/pkg/utils"
)

// Context keys understood by the built-in templates.
const (
	KeyFileComment               = "fileComment"
	KeyPackageQualifiedName      = "packageQualifiedName"
	KeyEntityClassQualifiedName  = "entityClassQualifiedName"
	KeyEntityClassName           = "entityClassName"
	KeyServicePackage            = "servicePackage"
	KeyRepositoryPackage         = "repositoryPackage"
	KeyEntityClassRequestMapping = "entityClassRequestMapping"
	KeyPrimaryKeyType            = "primaryKeyType"
	KeyBaseRepository            = "baseRepository"
)

var ErrRoleDisabled = errors.New("role disabled")

const (
	DefaultBaseRepository = "CrudRepository"
	DefaultPrimaryKeyType = "Long"
)

// Project holds the settings shared by every entity of a run.
type Project struct {
	FileComment       string `validate:"-"`
	ControllerPackage string `validate:"omitempty,java_package"`
	ServicePackage    string `validate:"omitempty,java_package"`
	RepositoryPackage string `validate:"omitempty,java_package"`
	BaseRepository    string `validate:"omitempty,java_type"`
	PrimaryKeyType    string `validate:"omitempty,java_type"`
	// Extra keys are added to every context. They never replace the
	// built-in keys above.
	Extra map[string]string `validate:"-"`
}

func ProjectFromConf(c conf.Project) Project {
	return Project{
		FileComment:       c.FileComment,
		ControllerPackage: c.ControllerPackage,
		ServicePackage:    c.ServicePackage,
		RepositoryPackage: c.RepositoryPackage,
		BaseRepository:    c.BaseRepository,
		PrimaryKeyType:    c.PrimaryKeyType,
		Extra:             c.Extra,
	}
}

// Builder derives template contexts from entity metadata. It is read-only
// after NewBuilder and safe for concurrent use.
type Builder struct {
	project     Project
	fileComment string
}

func NewBuilder(p Project) (*Builder, error) {
	if err := validate.Struct(p); err != nil {
		return nil, errors.Wrap(err, "invalid project")
	}
	if p.BaseRepository == "" {
		p.BaseRepository = DefaultBaseRepository
	}
	if p.PrimaryKeyType == "" {
		p.PrimaryKeyType = DefaultPrimaryKeyType
	}
	return &Builder{
		project: p,
		// config files carry the header on one line with literal \n
		fileComment: strings.ReplaceAll(p.FileComment, `\n`, "\n"),
	}, nil
}

func (b *Builder) Project() Project {
	return b.project
}

// Package returns the package the role's class is generated into.
func (b *Builder) Package(role templates.Role) string {
	switch role {
	case templates.Controller:
		return b.project.ControllerPackage
	case templates.Service:
		return b.project.ServicePackage
	case templates.Repository:
		return b.project.RepositoryPackage
	}
	return ""
}

// Roles returns the roles generated for e, in dependency order. A role is
// generated when its package is configured, e does not exclude it and the
// role it depends on is generated too.
func (b *Builder) Roles(e Entity) []templates.Role {
	var roles []templates.Role
	for _, role := range templates.Roles() {
		if b.CheckRole(e, role) == nil {
			roles = append(roles, role)
		}
	}
	return roles
}

// CheckRole reports why role cannot be generated for e: its package is not
// configured, e excludes it, or a role it requires is disabled.
func (b *Builder) CheckRole(e Entity, role templates.Role) error {
	if b.Package(role) == "" {
		return errors.Wrapf(ErrRoleDisabled, "%s: %s package is not configured", ClassName(e, role), role)
	}
	if e.Excludes(role) {
		return errors.Wrapf(ErrRoleDisabled, "%s: excluded by entity %s", ClassName(e, role), e.Name)
	}
	if dep, ok := role.Requires(); ok {
		if err := b.CheckRole(e, dep); err != nil {
			return errors.Wrapf(err, "%s requires %s", ClassName(e, role), ClassName(e, dep))
		}
	}
	return nil
}

// ClassName is the generated class name, e.g. OrderService.
func ClassName(e Entity, role templates.Role) string {
	return e.Name + string(role)
}

// RequestMapping is the REST path segment for e: the explicit mapping if
// set, otherwise the lower camel name with an s appended.
func RequestMapping(e Entity) string {
	if e.RequestMapping != "" {
		return strings.TrimPrefix(e.RequestMapping, "/")
	}
	return utils.LowerFirst(e.Name) + "s"
}

// Context builds the substitution context of e for role.
func (b *Builder) Context(e Entity, role templates.Role) (tmpl.Context, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	pkType := e.PrimaryKeyType
	if pkType == "" {
		pkType = b.project.PrimaryKeyType
	}

	builtin := tmpl.Context{
		KeyFileComment:               b.fileComment,
		KeyPackageQualifiedName:      b.Package(role),
		KeyEntityClassQualifiedName:  e.QualifiedName(),
		KeyEntityClassName:           e.Name,
		KeyServicePackage:            b.project.ServicePackage,
		KeyRepositoryPackage:         b.project.RepositoryPackage,
		KeyEntityClassRequestMapping: RequestMapping(e),
		KeyPrimaryKeyType:            pkType,
		KeyBaseRepository:            b.project.BaseRepository,
	}
	return tmpl.Context(b.project.Extra).Merge(builtin), nil
}
