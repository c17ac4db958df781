package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// LoadContext reads a YAML, JSON or TOML file into a context. Nested tables
// become dotted keys, scalar values are converted to strings.
func LoadContext(path string) (tmpl.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, errors.Errorf("unsupported context file %s, expected .yaml, .yml, .json or .toml", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	ctx := tmpl.Context{}
	if err := flatten(ctx, "", raw); err != nil {
		return nil, errors.Wrapf(err, "context file %s", path)
	}
	return ctx, nil
}

func flatten(ctx tmpl.Context, prefix string, raw map[string]interface{}) error {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			if err := flatten(ctx, key, nested); err != nil {
				return err
			}
			continue
		}
		if v == nil {
			ctx[key] = ""
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return errors.Wrapf(err, "key %s", key)
		}
		ctx[key] = s
	}
	return nil
}

// ParseSet parses key=value pairs given on the command line.
func ParseSet(pairs []string) (tmpl.Context, error) {
	ctx := tmpl.Context{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Errorf("invalid --set %q, expected key=value", p)
		}
		ctx[strings.TrimSpace(k)] = v
	}
	return ctx, nil
}

// BuildContext merges the context files in order, then the --set pairs.
func BuildContext(files, pairs []string) (tmpl.Context, error) {
	ctx := tmpl.Context{}
	for _, f := range files {
		c, err := LoadContext(f)
		if err != nil {
			return nil, err
		}
		ctx = ctx.Merge(c)
	}
	set, err := ParseSet(pairs)
	if err != nil {
		return nil, err
	}
	return ctx.Merge(set), nil
}
