package repository

import (
	"context"
	"io/fs"
	"os"
	"strings"
)

// FSSource reads content from the top level of an fs.FS.
type FSSource struct { // implements Source
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource serves the files directly inside dir.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

func (s *FSSource) Exists(_ context.Context) bool {
	info, err := fs.Stat(s.fsys, ".")
	return err == nil && info.IsDir()
}

func (s *FSSource) List(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (s *FSSource) Read(_ context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(s.fsys, name)
}

func validName(name string) bool {
	return fs.ValidPath(name) && name != "." && !strings.ContainsAny(name, `/\`)
}
