package cli

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/server"
	"github.com/debemdeboas/folio/web"
)

// app wires the content source, repository, renderer and HTTP server that
// every command shares.
type app struct {
	cfg      *config.Config
	repo     *repository.ContentRepository
	renderer *render.Renderer
	server   *server.Server

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, assets fs.FS) (*app, error) {
	a := &app{cfg: cfg}

	source, err := a.openSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.repo = repository.NewContentRepository(source, repository.WithWordsPerMinute(cfg.Content.WordsPerMinute))

	a.renderer, err = render.New(cfg.Content.Renderer)
	if err != nil {
		a.Close()
		return nil, err
	}

	if assets == nil {
		assets = web.FS
	}
	a.server, err = server.New(cfg, a.repo, a.renderer, assets)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) openSource(ctx context.Context) (repository.Source, error) {
	c := a.cfg.Content

	switch c.Source {
	case config.SourceS3:
		source, err := repository.NewS3Source(ctx, repository.S3Options{
			Bucket:          c.S3.Bucket,
			Prefix:          c.S3.Prefix,
			Endpoint:        c.S3.Endpoint,
			Region:          c.S3.Region,
			UsePathStyle:    c.S3.UsePathStyle,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrInitializingSource, err)
		}
		cliLogger.Info().Str("bucket", c.S3.Bucket).Str("prefix", c.S3.Prefix).Msg("Reading posts from S3")
		return source, nil

	case config.SourceArchive:
		database := db.NewSQLite(c.Archive.Path)
		if err := database.InitDB(); err != nil {
			return nil, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
		}
		a.closers = append(a.closers, database.Close)

		source, err := repository.NewArchiveSource(database, c.Archive.Codec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrInitializingSource, err)
		}
		cliLogger.Info().Str("path", c.Archive.Path).Msg("Reading posts from archive")
		return source, nil

	default:
		cliLogger.Info().Str("dir", c.Dir).Msg("Reading posts from directory")
		return repository.NewDirSource(c.Dir), nil
	}
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			cliLogger.Warn().Err(err).Msg("Error closing resource")
		}
	}
	a.closers = nil
}
