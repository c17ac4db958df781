package entity

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/templates"
)

var (
	javaIdent   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	javaPackage = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("java_ident", func(fl validator.FieldLevel) bool {
		return javaIdent.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("java_package", func(fl validator.FieldLevel) bool {
		return javaPackage.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("java_type", func(fl validator.FieldLevel) bool {
		// allows qualified and generic names such as java.util.UUID or Page<T>
		s := fl.Field().String()
		return s != "" && !strings.ContainsAny(s, "{}\n;")
	})
	return v
}

// Entity is the metadata of one persistent class.
type Entity struct {
	Name           string           `json:"name" yaml:"name" validate:"required,java_ident"`
	Package        string           `json:"package" yaml:"package" validate:"required,java_package"`
	PrimaryKeyType string           `json:"primaryKeyType,omitempty" yaml:"primary_key_type,omitempty" validate:"omitempty,java_type"`
	RequestMapping string           `json:"requestMapping,omitempty" yaml:"request_mapping,omitempty" validate:"omitempty,excludesall={}"`
	Exclude        []templates.Role `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

func (e Entity) QualifiedName() string {
	return e.Package + "." + e.Name
}

func (e Entity) Excludes(role templates.Role) bool {
	for _, r := range e.Exclude {
		if r == role {
			return true
		}
	}
	return false
}

func (e Entity) Validate() error {
	if err := validate.Struct(e); err != nil {
		return errors.Wrapf(err, "invalid entity %q", e.Name)
	}
	return nil
}

// FromConf converts a configured entity, parsing its excluded roles.
func FromConf(c conf.Entity) (Entity, error) {
	e := Entity{
		Name:           c.Name,
		Package:        c.Package,
		PrimaryKeyType: c.PrimaryKeyType,
		RequestMapping: c.RequestMapping,
	}
	for _, s := range c.Exclude {
		role, err := templates.ParseRole(s)
		if err != nil {
			return Entity{}, errors.Wrapf(err, "entity %s", c.Name)
		}
		e.Exclude = append(e.Exclude, role)
	}
	return e, e.Validate()
}

// FromConfList converts every configured entity, stopping at the first
// invalid one.
func FromConfList(list []conf.Entity) ([]Entity, error) {
	out := make([]Entity, 0, len(list))
	for _, c := range list {
		e, err := FromConf(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
