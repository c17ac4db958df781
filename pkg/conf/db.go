package conf

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

type DBType string

const (
	Sqlite   DBType = "sqlite"
	Postgres DBType = "postgres"
	MySQL    DBType = "mysql"
)

// 扫描元数据只需要很小的连接池
const (
	DefaultMaxIdleConns    = 2
	DefaultMaxOpenConns    = 4
	DefaultConnMaxLifetime = time.Hour
	DefaultConnMaxIdleTime = 15 * time.Minute
)

// DB is the database whose tables the schema scan turns into entities. A
// relative sqlite dbname is resolved against the config file directory.
type DB struct {
	Type      DBType `yaml:"type" env:"CRUDX_DB_TYPE"`
	Host      string `yaml:"host" env:"CRUDX_DB_HOST" env-default:"127.0.0.1"`
	Port      int    `yaml:"port" env:"CRUDX_DB_PORT"`
	User      string `yaml:"user" env:"CRUDX_DB_USER"`
	Password  string `yaml:"password" env:"CRUDX_DB_PASSWORD"`
	DBName    string `yaml:"dbname" env:"CRUDX_DB_NAME"`
	SSLMode   string `yaml:"sslmode" env:"CRUDX_DB_SSL_MODE" env-default:"disable"` // postgres
	Charset   string `yaml:"charset" env:"CRUDX_DB_CHARSET" env-default:"utf8mb4"`  // mysql
	ParseTime bool   `yaml:"parsetime" env:"CRUDX_DB_PARSE_TIME"`                   // mysql
	Loc       string `yaml:"loc" env:"CRUDX_DB_LOC" env-default:"Local"`            // mysql
	// Dsn 非空时直接使用，忽略上面的连接字段
	Dsn string `yaml:"dsn" env:"CRUDX_DB_DSN"`
	// ShowLog 通过 logx 打印扫描时执行的 SQL
	ShowLog bool `yaml:"showlog" env:"CRUDX_DB_SHOW_LOG"`

	MaxIdleConns    int           `yaml:"max_idle_conns" env:"CRUDX_DB_MAX_IDLE_CONNS" env-default:"2"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"CRUDX_DB_MAX_OPEN_CONNS" env-default:"4"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CRUDX_DB_CONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"CRUDX_DB_CONN_MAX_IDLE_TIME" env-default:"15m"`
}

// WithDefaults fills the zero fields a config file would have defaulted,
// for DB values built in code.
func (cfg DB) WithDefaults() DB {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.Charset == "" {
		cfg.Charset = "utf8mb4"
	}
	if cfg.Loc == "" {
		cfg.Loc = "Local"
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime <= 0 {
		cfg.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
	return cfg
}

func (cfg DB) BuildDSN() (string, error) {
	if cfg.Dsn != "" {
		return cfg.Dsn, nil
	}
	cfg = cfg.WithDefaults()

	switch cfg.Type {
	case Sqlite:
		if cfg.DBName == "" {
			return "", errors.New("dbname is required for sqlite")
		}
		return cfg.DBName, nil
	case Postgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode), nil
	case MySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
			cfg.Charset, cfg.ParseTime, cfg.Loc), nil
	default:
		return "", errors.Errorf("unsupported db type: %q", string(cfg.Type))
	}
}
