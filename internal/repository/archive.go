package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/debemdeboas/folio/internal/util/compression"
)

// ArchiveSource reads compressed markdown files from the content_files table.
type ArchiveSource struct { // implements Source
	db db.DB

	codec      string
	compressor compression.Compressor
}

// NewArchiveSource uses codec for new writes. Existing rows are decoded with
// the codec they were stored with.
func NewArchiveSource(database db.DB, codec string) (*ArchiveSource, error) {
	compressor, err := compression.ForCodec(codec)
	if err != nil {
		return nil, err
	}
	if codec == "" {
		codec = "zstd"
	}

	return &ArchiveSource{
		db:         database,
		codec:      codec,
		compressor: compressor,
	}, nil
}

func (s *ArchiveSource) Exists(ctx context.Context) bool {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'content_files'`,
	).Scan(&count)
	if err != nil {
		repoLogger.Debug().Err(err).Msg("Error checking archive table")
		return false
	}
	return count == 1
}

func (s *ArchiveSource) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM content_files ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying content files: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning content file: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *ArchiveSource) Read(ctx context.Context, name string) ([]byte, error) {
	var compressed []byte
	var codec string

	err := s.db.QueryRowContext(ctx,
		`SELECT content, codec FROM content_files WHERE name = ?`, name,
	).Scan(&compressed, &codec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading content file %s: %w", name, err)
	}

	compressor, err := compression.ForCodec(codec)
	if err != nil {
		return nil, err
	}

	content, err := compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing %s: %w", name, err)
	}
	return content, nil
}

// Put inserts or replaces a file. It reports whether the stored content changed.
func (s *ArchiveSource) Put(ctx context.Context, name string, content []byte, modifiedAt time.Time) (bool, error) {
	if !validName(name) {
		return false, fmt.Errorf("invalid content file name %q", name)
	}

	hash := util.ContentHash(content)

	var current string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM content_files WHERE name = ?`, name).Scan(&current)
	switch {
	case err == nil && current == hash:
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("error checking content file %s: %w", name, err)
	}

	compressed, err := s.compressor.Compress(content)
	if err != nil {
		return false, fmt.Errorf("error compressing content: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO content_files (name, content, codec, content_hash, modified_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    content = excluded.content,
    codec = excluded.codec,
    content_hash = excluded.content_hash,
    modified_at = excluded.modified_at`,
		name, compressed, s.codec, hash, modifiedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("error saving content file %s: %w", name, err)
	}

	repoLogger.Debug().Interface("result", res).Str("name", name).Msg("Content file saved")
	return true, nil
}

func (s *ArchiveSource) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM content_files WHERE name = ?`, name); err != nil {
		return fmt.Errorf("error deleting content file %s: %w", name, err)
	}
	return nil
}
