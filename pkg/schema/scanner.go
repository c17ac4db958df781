package schema

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/dbhelper"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/utils"
	"gorm.io/gorm"
)

// Scanner discovers entity metadata from database tables.
type Scanner struct {
	db        *gorm.DB
	defaultPK string
	include   []string
	exclude   []string
}

type Option func(s *Scanner)

// WithDefaultPrimaryKeyType is used for key columns whose type has no
// mapping.
func WithDefaultPrimaryKeyType(t string) Option {
	return func(s *Scanner) {
		s.defaultPK = t
	}
}

// WithInclude keeps only tables matching one of the glob patterns.
func WithInclude(patterns ...string) Option {
	return func(s *Scanner) {
		s.include = append(s.include, patterns...)
	}
}

// WithExclude drops tables matching one of the glob patterns.
func WithExclude(patterns ...string) Option {
	return func(s *Scanner) {
		s.exclude = append(s.exclude, patterns...)
	}
}

func NewScanner(db *gorm.DB, opts ...Option) *Scanner {
	s := &Scanner{db: db, defaultPK: entity.DefaultPrimaryKeyType}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entities maps every selected table with a single-column primary key to
// an entity in pkg. The result is sorted by table name.
func (s *Scanner) Entities(ctx context.Context, pkg string) ([]entity.Entity, error) {
	db := s.db.WithContext(ctx)
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	sort.Strings(tables)

	var entities []entity.Entity
	for _, table := range tables {
		if !s.selected(table) {
			continue
		}

		pkType, err := s.primaryKeyType(db, table)
		if err != nil {
			return nil, err
		}
		if pkType == "" {
			logx.Warnf("skip table %s: no single-column primary key", table)
			continue
		}

		entities = append(entities, entity.Entity{
			Name:           ClassName(table),
			Package:        pkg,
			PrimaryKeyType: pkType,
		})
	}
	return entities, nil
}

func (s *Scanner) selected(table string) bool {
	if strings.HasPrefix(table, "sqlite_") {
		return false
	}
	if len(s.include) > 0 && !matchAny(s.include, table) {
		return false
	}
	return !matchAny(s.exclude, table)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) primaryKeyType(db *gorm.DB, table string) (string, error) {
	columns, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return "", errors.Wrapf(err, "read columns of %s", table)
	}

	var keys []gorm.ColumnType
	for _, c := range columns {
		if pk, ok := c.PrimaryKey(); ok && pk {
			keys = append(keys, c)
		}
	}
	if len(keys) != 1 {
		return "", nil
	}
	return JavaType(keys[0].DatabaseTypeName(), s.defaultPK), nil
}

// ClassName converts a table name to a class name: order_items -> OrderItem.
func ClassName(table string) string {
	return utils.Case2Camel(inflection.Singular(strings.ToLower(table)))
}

// JavaType maps a SQL column type to the Java type used for the entity
// key, or fallback when there is no mapping.
func JavaType(sqlType, fallback string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")

	switch t {
	case "bigint", "int8", "bigserial", "serial8":
		return "Long"
	case "int", "integer", "int4", "serial", "serial4", "mediumint":
		return "Integer"
	case "smallint", "int2", "tinyint", "smallserial":
		return "Short"
	case "varchar", "char", "text", "character varying", "character", "nvarchar", "nchar", "string", "varchar2":
		return "String"
	case "uuid", "uniqueidentifier":
		return "java.util.UUID"
	}
	return fallback
}

// Scan opens the configured database, scans it and closes it.
func Scan(ctx context.Context, cfg conf.Schema, defaultPK string) ([]entity.Entity, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	db, err := dbhelper.NewDB(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	opts := []Option{WithInclude(cfg.Include...), WithExclude(cfg.Exclude...)}
	if defaultPK != "" {
		opts = append(opts, WithDefaultPrimaryKeyType(defaultPK))
	}
	return NewScanner(db.DB, opts...).Entities(ctx, cfg.Package)
}
