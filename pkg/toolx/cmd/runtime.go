package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/schema"
	"github.com/shrewx/crudx/pkg/templates"
)

// Runtime is everything a command needs after reading the config file.
type Runtime struct {
	Conf    *conf.Gen
	Builder *entity.Builder
	Set     *templates.Set
}

func Setup(configFile string) (*Runtime, error) {
	cfg, err := conf.ReadGen(configFile)
	if err != nil {
		return nil, err
	}
	logx.Load(&cfg.Log)

	builder, err := entity.NewBuilder(entity.ProjectFromConf(cfg.Project))
	if err != nil {
		return nil, err
	}
	set, err := templates.LoadDir(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	return &Runtime{Conf: cfg, Builder: builder, Set: set}, nil
}

// Entities returns the configured entities followed by the ones discovered
// from the schema, if enabled.
func (r *Runtime) Entities(ctx context.Context) ([]entity.Entity, error) {
	entities, err := entity.FromConfList(r.Conf.Entities)
	if err != nil {
		return nil, err
	}
	if !r.Conf.Schema.Enabled() {
		return entities, nil
	}

	scanned, err := schema.Scan(ctx, r.Conf.Schema, r.Conf.Project.PrimaryKeyType)
	if err != nil {
		return nil, err
	}
	logx.Infof("discovered %d entities from %s database", len(scanned), r.Conf.Schema.DB.Type)
	return append(entities, scanned...), nil
}

// SignalContext is canceled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
