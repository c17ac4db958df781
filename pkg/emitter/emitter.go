package emitter

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultExtension = ".java"

// Emitter renders the CRUD layer of a set of entities and hands each file
// to a Writer.
type Emitter struct {
	builder     *entity.Builder
	set         *templates.Set
	writer      Writer
	concurrency int
	extension   string
}

type Option func(e *Emitter)

func WithConcurrency(n int) Option {
	return func(e *Emitter) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func WithExtension(ext string) Option {
	return func(e *Emitter) {
		e.extension = ext
	}
}

func New(builder *entity.Builder, set *templates.Set, writer Writer, opts ...Option) *Emitter {
	e := &Emitter{
		builder:     builder,
		set:         set,
		writer:      writer,
		concurrency: 1,
		extension:   DefaultExtension,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path is the destination of ent's role file relative to the output root:
// <package path>/<Entity><Role><ext>.
func (e *Emitter) Path(ent entity.Entity, role templates.Role) string {
	return filepath.Join(utils.PackagePath(e.builder.Package(role)), entity.ClassName(ent, role)+e.extension)
}

// Render produces the text of ent's role file. It fails with
// entity.ErrRoleDisabled when the builder would not generate that role.
func (e *Emitter) Render(ent entity.Entity, role templates.Role) (string, error) {
	t, err := e.set.Get(role)
	if err != nil {
		return "", err
	}
	ctx, err := e.builder.Context(ent, role)
	if err != nil {
		return "", err
	}
	if err := e.builder.CheckRole(ent, role); err != nil {
		return "", err
	}
	out, err := t.Render(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "render %s", entity.ClassName(ent, role))
	}
	return out, nil
}

type job struct {
	entity entity.Entity
	role   templates.Role
	path   string
}

// Emit renders and writes every (entity, role) pair the builder allows. A
// failing pair is recorded in the report and never stops the others. The
// returned error is only set when ctx ends before all pairs ran.
func (e *Emitter) Emit(ctx context.Context, entities []entity.Entity) (*Report, error) {
	var jobs []job
	for _, ent := range entities {
		for _, role := range e.builder.Roles(ent) {
			jobs = append(jobs, job{entity: ent, role: role, path: e.Path(ent, role)})
		}
	}

	report := &Report{Results: make([]Result, len(jobs))}
	owners := map[string]int{}

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for i, j := range jobs {
		report.Results[i] = Result{Entity: j.entity.Name, Role: j.role, Path: j.path}

		if ctx.Err() != nil {
			report.Results[i].Status = StatusCanceled
			report.Results[i].Err = ctx.Err()
			continue
		}
		if first, ok := owners[j.path]; ok {
			report.Results[i].Status = StatusFailed
			report.Results[i].Err = errors.Errorf("duplicate output path %s, already produced by %s", j.path, jobs[first].entity.QualifiedName())
			continue
		}
		owners[j.path] = i

		g.Go(func() error {
			status, err := e.emit(j)
			report.Results[i].Status = status
			report.Results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range report.Results {
		fields := logrus.Fields{"entity": r.Entity, "role": string(r.Role), "path": r.Path, "status": string(r.Status)}
		if r.Err != nil {
			logx.WithFields(fields).WithError(r.Err).Error("emit failed")
		} else {
			logx.WithFields(fields).Debug("emit")
		}
	}

	if err := ctx.Err(); err != nil && report.Count(StatusCanceled) > 0 {
		return report, errors.Wrap(err, "emit interrupted")
	}
	return report, nil
}

func (e *Emitter) emit(j job) (Status, error) {
	out, err := e.Render(j.entity, j.role)
	if err != nil {
		return StatusFailed, err
	}
	return e.writer.Write(j.path, []byte(out))
}

// Result is the outcome of one (entity, role) pair.
type Result struct {
	Entity string
	Role   templates.Role
	Path   string
	Status Status
	Err    error
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %v", r.Status, r.Path, r.Err)
	}
	return fmt.Sprintf("%s %s", r.Status, r.Path)
}

type Report struct {
	Results []Result
}

func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of every failed pair, nil when all succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, errors.Wrapf(res.Err, "%s %s", res.Entity, res.Role))
	}
	return stderrors.Join(errs...)
}
