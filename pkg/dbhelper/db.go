package dbhelper

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/logx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// NewDB opens the database described by cfg and pings it, retrying with
// backoff while ctx allows.
func NewDB(ctx context.Context, cfg conf.DB) (*DB, error) {
	cfg = cfg.WithDefaults()
	if cfg.Dsn == "" {
		dsn, err := cfg.BuildDSN()
		if err != nil {
			return nil, err
		}
		cfg.Dsn = dsn
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case conf.Postgres:
		dialector = postgres.Open(cfg.Dsn)
	case conf.MySQL:
		dialector = mysql.Open(cfg.Dsn)
	case conf.Sqlite:
		dialector = sqlite.Open(cfg.Dsn)
	default:
		return nil, errors.New("unsupported db type: " + string(cfg.Type))
	}

	gormCfg := &gorm.Config{Logger: logger.Discard}
	if cfg.ShowLog {
		gormCfg.Logger = logger.New(
			logx.Instance(),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      false,
				Colorful:                  false,
			})
	}

	db, err := RetryWithBackoff(ctx, func() (*gorm.DB, error) {
		db, err := gorm.Open(dialector, gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}, DefaultRetryConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DB{db.WithContext(ctx)}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
