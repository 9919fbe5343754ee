package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

type stats struct {
	Saved     int
	Unchanged int
	Skipped   int
	Pruned    int
}

type options struct {
	path  string
	db    string
	codec string
	prune bool
}

// main packs a directory of markdown posts into the SQLite archive.
func main() {
	var opts options
	flag.StringVar(&opts.path, "path", "", "Path to the directory containing .md files")
	flag.StringVar(&opts.db, "db", "./content.db", "Path to the SQLite archive")
	flag.StringVar(&opts.codec, "codec", config.CodecZstd, "Compression codec for new rows (zstd or gzip)")
	flag.BoolVar(&opts.prune, "prune", false, "Remove archived files that no longer exist in --path")
	flag.Parse()

	l := logger.New("info", logger.FormatConsole)
	db.SetLogger(l)
	repository.SetLogger(l)

	if err := run(context.Background(), l, opts); err != nil {
		l.Error().Err(err).Msg("Archiving failed")
		os.Exit(1)
	}
}

// run archives opts.path and closes the database on every path out.
func run(ctx context.Context, l zerolog.Logger, opts options) error {
	if opts.path == "" {
		return errors.New("the --path flag is required")
	}

	database := db.NewSQLite(opts.db)
	if err := database.InitDB(); err != nil {
		return fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
	}
	defer database.Close()

	archive, err := repository.NewArchiveSource(database, opts.codec)
	if err != nil {
		return fmt.Errorf("invalid codec: %w", err)
	}

	res, err := archiveDir(ctx, l, opts.path, archive, opts.prune)
	if err != nil {
		return err
	}

	l.Info().
		Int("saved", res.Saved).
		Int("unchanged", res.Unchanged).
		Int("skipped", res.Skipped).
		Int("pruned", res.Pruned).
		Str("db", opts.db).
		Msg("Archive updated")
	return nil
}

// archiveDir stores every markdown file of dir whose front matter parses.
// Files that fail to parse are skipped, as the repository would skip them.
func archiveDir(ctx context.Context, l zerolog.Logger, dir string, archive *repository.ArchiveSource, prune bool) (stats, error) {
	var res stats

	files, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	present := make(map[string]bool)
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), config.MarkdownExt) {
			continue
		}
		present[file.Name()] = true

		changed, err := processFile(ctx, dir, file, archive)
		if err != nil {
			l.Warn().Err(err).Str("file", file.Name()).Msg("Skipping file")
			res.Skipped++
			continue
		}
		if changed {
			l.Info().Str("file", file.Name()).Msg("Saved post")
			res.Saved++
		} else {
			res.Unchanged++
		}
	}

	if !prune {
		return res, nil
	}

	archived, err := archive.List(ctx)
	if err != nil {
		return res, err
	}
	for _, name := range archived {
		if present[name] {
			continue
		}
		if err := archive.Delete(ctx, name); err != nil {
			return res, err
		}
		l.Info().Str("file", name).Msg("Pruned post")
		res.Pruned++
	}
	return res, nil
}

func processFile(ctx context.Context, dir string, file os.DirEntry, archive *repository.ArchiveSource) (bool, error) {
	content, err := os.ReadFile(filepath.Join(dir, file.Name()))
	if err != nil {
		return false, err
	}

	if _, _, err := util.ParseFrontMatter(content); err != nil {
		return false, err
	}

	info, err := file.Info()
	if err != nil {
		return false, err
	}

	return archive.Put(ctx, file.Name(), content, info.ModTime())
}
