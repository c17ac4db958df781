package conf

import (
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

const DefaultConfig = "crudx.yaml"

type OverwritePolicy string

const (
	OverwriteFail      OverwritePolicy = "fail"
	OverwriteSkip      OverwritePolicy = "skip"
	OverwriteOverwrite OverwritePolicy = "overwrite"
)

func (p OverwritePolicy) Validate() error {
	switch p {
	case OverwriteFail, OverwriteSkip, OverwriteOverwrite:
		return nil
	}
	return errors.Errorf("unknown overwrite policy %q", string(p))
}

// Gen is the root configuration of a generation run.
type Gen struct {
	OutputDir   string          `yaml:"output_dir" env:"CRUDX_OUTPUT_DIR" env-default:"."`
	Overwrite   OverwritePolicy `yaml:"overwrite" env:"CRUDX_OVERWRITE" env-default:"fail"`
	Concurrency int             `yaml:"concurrency" env:"CRUDX_CONCURRENCY" env-default:"4"`
	TemplateDir string          `yaml:"template_dir" env:"CRUDX_TEMPLATE_DIR"`

	Project  Project  `yaml:"project"`
	Entities []Entity `yaml:"entities"`
	Schema   Schema   `yaml:"schema"`

	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
}

// Project holds the settings shared by every entity.
type Project struct {
	FileComment       string            `yaml:"file_comment" env:"CRUDX_FILE_COMMENT"`
	ControllerPackage string            `yaml:"controller_package" env:"CRUDX_CONTROLLER_PACKAGE"`
	ServicePackage    string            `yaml:"service_package" env:"CRUDX_SERVICE_PACKAGE"`
	RepositoryPackage string            `yaml:"repository_package" env:"CRUDX_REPOSITORY_PACKAGE"`
	BaseRepository    string            `yaml:"base_repository" env:"CRUDX_BASE_REPOSITORY" env-default:"CrudRepository"`
	PrimaryKeyType    string            `yaml:"primary_key_type" env:"CRUDX_PRIMARY_KEY_TYPE" env-default:"Long"`
	Extra             map[string]string `yaml:"extra"`
}

// Entity describes one persistent class.
type Entity struct {
	Name           string   `yaml:"name" json:"name"`
	Package        string   `yaml:"package" json:"package"`
	PrimaryKeyType string   `yaml:"primary_key_type" json:"primary_key_type,omitempty"`
	RequestMapping string   `yaml:"request_mapping" json:"request_mapping,omitempty"`
	Exclude        []string `yaml:"exclude" json:"exclude,omitempty"`
}

// Schema enables entity discovery from a database. It is ignored when
// DB.Type is empty.
type Schema struct {
	DB      DB       `yaml:"db"`
	Package string   `yaml:"package" env:"CRUDX_SCHEMA_PACKAGE"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

func (s Schema) Enabled() bool {
	return s.DB.Type != ""
}

// ReadGen loads path with cleanenv, so YAML, JSON, TOML and env files are
// accepted and environment variables override file values. An empty path
// reads the environment only.
func ReadGen(path string) (*Gen, error) {
	cfg := &Gen{}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, errors.Wrap(err, "read env config")
		}
	} else {
		if path == DefaultConfig {
			pwd, err := os.Getwd()
			if err != nil {
				return nil, errors.WithStack(err)
			}
			path = filepath.Join(pwd, path)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		// 相对路径以配置文件所在目录为准
		cfg.OutputDir = resolve(filepath.Dir(path), cfg.OutputDir)
		cfg.TemplateDir = resolve(filepath.Dir(path), cfg.TemplateDir)
		if cfg.Schema.DB.Type == Sqlite && cfg.Schema.DB.Dsn == "" {
			cfg.Schema.DB.DBName = resolve(filepath.Dir(path), cfg.Schema.DB.DBName)
		}
	}

	if err := cfg.Overwrite.Validate(); err != nil {
		return nil, err
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
