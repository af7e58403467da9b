package deps

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"testing/fstest"
)

// FileSystem is the read-only filesystem capability used by builds and
// extractors. The builder itself only calls ReadFile; extractors use Stat to
// resolve module specifiers.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

// ReadFile reads the named file.
func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Stat returns file info for path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// MapFileSystem is an in-memory filesystem keyed by absolute slash paths.
// Parent directories are implied by the file paths.
type MapFileSystem struct {
	fsys fstest.MapFS
}

// NewMapFileSystem creates an in-memory filesystem from path to contents.
func NewMapFileSystem(files map[string]string) *MapFileSystem {
	fsys := make(fstest.MapFS, len(files))
	for p, contents := range files {
		fsys[mapName(p)] = &fstest.MapFile{Data: []byte(contents), Mode: 0644}
	}
	return &MapFileSystem{fsys: fsys}
}

// ReadFile reads the named file.
func (m *MapFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(m.fsys, mapName(name))
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: unwrapPathError(err)}
	}
	return data, nil
}

// Stat returns file info for name. Directories implied by files report
// IsDir.
func (m *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	info, err := fs.Stat(m.fsys, mapName(name))
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: unwrapPathError(err)}
	}
	return info, nil
}

func mapName(p string) string {
	p = strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" {
		return "."
	}
	return p
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}

var (
	_ FileSystem = OSFileSystem{}
	_ FileSystem = (*MapFileSystem)(nil)
)
