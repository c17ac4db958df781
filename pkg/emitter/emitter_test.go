package emitter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *entity.Builder {
	b, err := entity.NewBuilder(entity.Project{
		FileComment:       "// generated",
		ControllerPackage: "com.acme.web",
		ServicePackage:    "com.acme.service",
		RepositoryPackage: "com.acme.repository",
	})
	require.NoError(t, err)
	return b
}

func javaPath(parts ...string) string {
	return filepath.Join(parts...)
}

func TestEmit_MemWriter(t *testing.T) {
	w := NewMemWriter()
	e := New(newBuilder(t), templates.Default(), w, WithConcurrency(4))

	report, err := e.Emit(context.Background(), []entity.Entity{
		{Name: "Order", Package: "com.acme.domain"},
		{Name: "User", Package: "com.acme.domain", PrimaryKeyType: "String"},
	})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, 6, report.Count(StatusWritten))

	assert.Equal(t, []string{
		javaPath("com", "acme", "repository", "OrderRepository.java"),
		javaPath("com", "acme", "repository", "UserRepository.java"),
		javaPath("com", "acme", "service", "OrderService.java"),
		javaPath("com", "acme", "service", "UserService.java"),
		javaPath("com", "acme", "web", "OrderController.java"),
		javaPath("com", "acme", "web", "UserController.java"),
	}, w.Paths())

	content, ok := w.File(javaPath("com", "acme", "web", "UserController.java"))
	require.True(t, ok)
	assert.Contains(t, string(content), `@RequestMapping("/users")`)
	assert.Contains(t, string(content), "public User findOne(@PathVariable(\"id\") String id)")
	assert.Contains(t, string(content), "import com.acme.service.UserService;")
}

func TestEmit_FailuresAreScoped(t *testing.T) {
	w := NewMemWriter()
	e := New(newBuilder(t), templates.Default(), w, WithConcurrency(2))

	report, err := e.Emit(context.Background(), []entity.Entity{
		{Name: "Bad Name", Package: "com.acme.domain"},
		{Name: "Order", Package: "com.acme.domain"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Count(StatusFailed))
	assert.Equal(t, 3, report.Count(StatusWritten))
	assert.Error(t, report.Err())
	for _, r := range report.Failed() {
		assert.Equal(t, "Bad Name", r.Entity)
	}
}

func TestEmit_MissingKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "repository.java.tpl"), []byte("interface {{entityClassName}}Repository {{unknownKey}}"), 0644))
	set, err := templates.LoadDir(dir)
	require.NoError(t, err)

	w := NewMemWriter()
	report, err := New(newBuilder(t), set, w).Emit(context.Background(), []entity.Entity{{Name: "Order", Package: "p"}})
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, templates.Repository, failed[0].Role)
	assert.True(t, errors.Is(failed[0].Err, tmpl.ErrMissingKey))

	var missing *tmpl.MissingKeyError
	require.True(t, errors.As(report.Err(), &missing))
	assert.Equal(t, "unknownKey", missing.Name)

	assert.Len(t, w.Paths(), 2)
}

func TestRender_DisabledRole(t *testing.T) {
	e := New(newBuilder(t), templates.Default(), nil)

	_, err := e.Render(entity.Entity{Name: "Order", Package: "p", Exclude: []templates.Role{templates.Controller}}, templates.Controller)
	assert.ErrorIs(t, err, entity.ErrRoleDisabled)

	_, err = e.Render(entity.Entity{Name: "Order", Package: "p", Exclude: []templates.Role{templates.Repository}}, templates.Controller)
	assert.ErrorIs(t, err, entity.ErrRoleDisabled)

	out, err := e.Render(entity.Entity{Name: "Order", Package: "p"}, templates.Controller)
	require.NoError(t, err)
	assert.Contains(t, out, "public class OrderController")
}

func TestEmit_DuplicatePath(t *testing.T) {
	report, err := New(newBuilder(t), templates.Default(), NewMemWriter()).Emit(context.Background(), []entity.Entity{
		{Name: "Order", Package: "com.acme.sales"},
		{Name: "Order", Package: "com.acme.billing"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Count(StatusWritten))
	failed := report.Failed()
	require.Len(t, failed, 3)
	assert.Contains(t, failed[0].Err.Error(), "duplicate output path")
}

func TestEmit_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(newBuilder(t), templates.Default(), NewMemWriter()).Emit(ctx, []entity.Entity{{Name: "Order", Package: "p"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, report.Count(StatusCanceled))
}

func TestDirWriter_Policies(t *testing.T) {
	root := t.TempDir()
	path := javaPath("com", "acme", "OrderService.java")

	status, err := NewDirWriter(root, conf.OverwriteFail).Write(path, []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, status)

	status, err = NewDirWriter(root, conf.OverwriteFail).Write(path, []byte("v2"))
	assert.True(t, errors.Is(err, ErrFileExists))
	assert.Equal(t, StatusFailed, status)

	status, err = NewDirWriter(root, conf.OverwriteSkip).Write(path, []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)

	content, err := os.ReadFile(filepath.Join(root, path))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	status, err = NewDirWriter(root, conf.OverwriteOverwrite).Write(path, []byte("v3"))
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, status)

	content, err = os.ReadFile(filepath.Join(root, path))
	require.NoError(t, err)
	assert.Equal(t, "v3", string(content))
}

func TestEmit_DirWriter(t *testing.T) {
	root := t.TempDir()
	e := New(newBuilder(t), templates.Default(), NewDirWriter(root, conf.OverwriteFail))

	report, err := e.Emit(context.Background(), []entity.Entity{{Name: "Order", Package: "com.acme.domain"}})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	content, err := os.ReadFile(filepath.Join(root, "com", "acme", "repository", "OrderRepository.java"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "public interface OrderRepository extends CrudRepository<Order, Long>")
}
