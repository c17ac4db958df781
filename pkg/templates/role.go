package templates

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is the CRUD layer a template produces.
type Role string

const (
	Repository Role = "Repository"
	Service    Role = "Service"
	Controller Role = "Controller"
)

// Roles returns every role in dependency order: a service needs its
// repository, a controller needs its service.
func Roles() []Role {
	return []Role{Repository, Service, Controller}
}

// Requires returns the role this one depends on, if any.
func (r Role) Requires() (Role, bool) {
	switch r {
	case Service:
		return Repository, true
	case Controller:
		return Service, true
	}
	return "", false
}

// FileName is the template file name used in an override directory.
func (r Role) FileName() string {
	return strings.ToLower(string(r)) + FileSuffix
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", errors.Errorf("unknown role %q, expected one of repository, service, controller", s)
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(string(r))), nil
}
