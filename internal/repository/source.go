package repository

import (
	"context"

	"github.com/rs/zerolog"
)

// Source is the storage the repository reads markdown files from. Names are
// flat: a source never lists or reads nested paths.
type Source interface {
	// Exists reports whether the underlying directory, bucket or table is present.
	Exists(ctx context.Context) bool
	// List returns entry names sorted lexically.
	List(ctx context.Context) ([]string, error)
	// Read returns the whole file. Absent names wrap fs.ErrNotExist.
	Read(ctx context.Context, name string) ([]byte, error)
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
