// Package artifacts persists the outputs of a training or evaluation run
// into a single directory.
//
// Writes are staged: every file is first written to a hidden temporary file
// in the artifact directory and only renamed into place by Commit, so a run
// that fails while writing leaves the previous artifacts untouched.
package artifacts

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Artifact file names inside the store directory.
const (
	ModelFile           = "model.gob"
	MetricsFile         = "metrics.json"
	ReportFile          = "report.json"
	ConfusionMatrixFile = "confusion_matrix.png"
)

// Store is an artifact directory. It holds no open handles.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. Nothing is created until Ensure.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the location of the named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Ensure creates the store directory if it does not exist.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.NewIOError("create artifact directory", s.dir, err)
	}
	return nil
}

// Stage starts a set of writes that become visible together on Commit.
func (s *Store) Stage() *Staging {
	return &Staging{store: s}
}

type stagedFile struct {
	name string
	tmp  string
}

// Staging collects temporary files until they are committed or discarded.
// A Staging is not safe for concurrent use.
type Staging struct {
	store  *Store
	files  []stagedFile
	closed bool
}

// Write stages the named artifact with the bytes produced by write. On error
// the temporary file is removed and an IOError is returned.
func (st *Staging) Write(name string, write func(w io.Writer) error) (err error) {
	target := st.store.Path(name)
	if st.closed {
		return errors.NewIOError("stage", target, errors.New("staging already committed or discarded"))
	}

	f, err := os.CreateTemp(st.store.dir, "."+name+".*.tmp")
	if err != nil {
		return errors.NewIOError("stage", target, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		return errors.NewIOError("write", target, err)
	}
	if err = f.Sync(); err != nil {
		return errors.NewIOError("sync", target, err)
	}
	if err = f.Close(); err != nil {
		return errors.NewIOError("close", target, err)
	}

	st.files = append(st.files, stagedFile{name: name, tmp: f.Name()})
	return nil
}

// WriteJSON stages v as indented JSON.
func (st *Staging) WriteJSON(name string, v interface{}) error {
	return st.Write(name, func(w io.Writer) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	})
}

// Staged returns the names of the staged artifacts in staging order.
func (st *Staging) Staged() []string {
	names := make([]string, len(st.files))
	for i, f := range st.files {
		names[i] = f.name
	}
	return names
}

// Commit renames every staged file into place and returns the final paths.
// Files already at a target are moved aside first. If any step fails, the
// targets renamed so far are removed, the previous files are restored and
// the remaining staged files are discarded, so the store is left as it was.
func (st *Staging) Commit() ([]string, error) {
	if st.closed {
		return nil, errors.NewIOError("commit", st.store.dir, errors.New("staging already committed or discarded"))
	}
	st.closed = true

	var (
		paths   = make([]string, 0, len(st.files))
		backups = make([]string, len(st.files))
	)
	rollback := func(failed int) {
		for i := failed; i >= 0; i-- {
			target := st.store.Path(st.files[i].name)
			if i < len(paths) {
				_ = os.RemoveAll(target)
			}
			if backups[i] != "" {
				_ = os.Rename(backups[i], target)
			}
		}
		removeAll(st.files[failed:])
	}

	for i, f := range st.files {
		target := st.store.Path(f.name)
		if _, err := os.Lstat(target); err == nil {
			backup := f.tmp + ".prev"
			if err := os.Rename(target, backup); err != nil {
				rollback(i)
				return nil, errors.NewIOError("commit", target, err)
			}
			backups[i] = backup
		}
		if err := os.Rename(f.tmp, target); err != nil {
			rollback(i)
			return nil, errors.NewIOError("commit", target, err)
		}
		paths = append(paths, target)
	}

	for _, backup := range backups {
		if backup != "" {
			_ = os.RemoveAll(backup)
		}
	}
	return paths, nil
}

func removeAll(files []stagedFile) {
	for _, f := range files {
		_ = os.Remove(f.tmp)
	}
}
