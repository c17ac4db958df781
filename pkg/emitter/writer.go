package emitter

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/conf"
)

type Status string

const (
	StatusWritten  Status = "written"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

var ErrFileExists = errors.New("file already exists")

// Writer persists rendered files. Paths are relative and slash separated
// by the OS convention. Implementations must be safe for concurrent use.
type Writer interface {
	Write(path string, content []byte) (Status, error)
}

// DirWriter writes below Root, creating directories as needed.
type DirWriter struct {
	Root   string
	Policy conf.OverwritePolicy
}

func NewDirWriter(root string, policy conf.OverwritePolicy) *DirWriter {
	if policy == "" {
		policy = conf.OverwriteFail
	}
	return &DirWriter{Root: root, Policy: policy}
}

func (w *DirWriter) Write(path string, content []byte) (Status, error) {
	full := filepath.Join(w.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return StatusFailed, errors.WithStack(err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if w.Policy != conf.OverwriteOverwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(full, flag, 0644)
	if os.IsExist(err) {
		if w.Policy == conf.OverwriteSkip {
			return StatusSkipped, nil
		}
		return StatusFailed, errors.Wrap(ErrFileExists, full)
	}
	if err != nil {
		return StatusFailed, errors.WithStack(err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return StatusFailed, errors.Wrapf(err, "write %s", full)
	}
	if err := f.Close(); err != nil {
		return StatusFailed, errors.Wrapf(err, "close %s", full)
	}
	return StatusWritten, nil
}

// MemWriter keeps files in memory, used for dry runs.
type MemWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemWriter() *MemWriter {
	return &MemWriter{files: map[string][]byte{}}
}

func (w *MemWriter) Write(path string, content []byte) (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return StatusFailed, errors.Wrap(ErrFileExists, path)
	}
	w.files[path] = append([]byte(nil), content...)
	return StatusWritten, nil
}

func (w *MemWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	content, ok := w.files[path]
	return content, ok
}

// Paths returns the stored paths sorted.
func (w *MemWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
