package templates

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/tmpl"
)

// Set holds one parsed template per role. It is never modified after
// construction.
type Set struct {
	templates map[Role]*tmpl.Template
}

var (
	defaultSet  *Set
	defaultOnce sync.Once
)

// Default returns the templates compiled into the binary.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = &Set{templates: map[Role]*tmpl.Template{}}
		for _, role := range Roles() {
			defaultSet.templates[role] = tmpl.MustParse(role.FileName(), source(role))
		}
	})
	return defaultSet
}

// LoadDir parses <role>.java.tpl files found in dir. Roles without a file
// keep the built-in template. An empty dir returns Default.
func LoadDir(dir string) (*Set, error) {
	if dir == "" {
		return Default(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "template dir %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("template dir %s is not a directory", dir)
	}

	set := &Set{templates: map[Role]*tmpl.Template{}}
	for _, role := range Roles() {
		path := filepath.Join(dir, role.FileName())
		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			set.templates[role] = Default().templates[role]
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read template %s", path)
		}

		t, err := tmpl.ParseNamed(path, string(content))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		logx.Debugf("use template %s for role %s", path, role)
		set.templates[role] = t
	}
	return set, nil
}

// Get returns the template for role.
func (s *Set) Get(role Role) (*tmpl.Template, error) {
	t, ok := s.templates[role]
	if !ok {
		return nil, errors.Errorf("no template for role %s", role)
	}
	return t, nil
}

// Keys returns, per role, the placeholder names its template references.
func (s *Set) Keys() map[Role][]string {
	out := make(map[Role][]string, len(s.templates))
	for role, t := range s.templates {
		out[role] = t.Keys()
	}
	return out
}
