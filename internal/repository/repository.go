package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/util"
)

// PostRepository answers queries about the posts in a content source.
// Failures never reach callers: they are logged and read as "no posts" or
// "not found".
type PostRepository interface {
	// ListPostsMetadata returns every post sorted by date, newest first.
	ListPostsMetadata(ctx context.Context) []model.PostMetadata
	GetPostBySlug(ctx context.Context, slug string) (*model.Post, bool)
	ListSlugs(ctx context.Context) []string
	// ListPostsByTag matches tags case-insensitively.
	ListPostsByTag(ctx context.Context, tag string) []model.PostMetadata
	// ListTags keeps the casing of the front matter, so "Go" and "go" are
	// two tags here while ListPostsByTag treats them as one.
	ListTags(ctx context.Context) []string
	ListFeaturedPosts(ctx context.Context) []model.PostMetadata

	// ContentHashes maps every readable post file to the hash of its bytes.
	ContentHashes(ctx context.Context) map[string]string
}

// ContentRepository re-reads its source on every call. There is no index to
// invalidate, so results always match the current files.
type ContentRepository struct { // implements PostRepository
	source         Source
	wordsPerMinute int
}

type Option func(*ContentRepository)

func WithWordsPerMinute(wpm int) Option {
	return func(r *ContentRepository) {
		if wpm > 0 {
			r.wordsPerMinute = wpm
		}
	}
}

func NewContentRepository(source Source, opts ...Option) *ContentRepository {
	r := &ContentRepository{
		source:         source,
		wordsPerMinute: util.DefaultWordsPerMinute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ContentRepository) ListPostsMetadata(ctx context.Context) []model.PostMetadata {
	posts := metadataOf(r.loadPosts(ctx))
	slices.SortStableFunc(posts, func(a, b model.PostMetadata) int {
		return strings.Compare(b.Date, a.Date)
	})
	return posts
}

func (r *ContentRepository) GetPostBySlug(ctx context.Context, slug string) (*model.Post, bool) {
	if slug == "" {
		return nil, false
	}

	raw, err := r.source.Read(ctx, slug+config.MarkdownExt)
	if err != nil {
		repoLogger.Debug().Err(err).Str("slug", slug).Msg("Post not found")
		return nil, false
	}

	post, err := r.parsePost(slug, raw)
	if err != nil {
		repoLogger.Warn().Err(err).Str("slug", slug).Msg(config.ErrParseFrontMatter)
		return nil, false
	}
	return post, true
}

// ListSlugs only returns slugs that GetPostBySlug can resolve.
func (r *ContentRepository) ListSlugs(ctx context.Context) []string {
	posts := r.loadPosts(ctx)
	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Slug)
	}
	return slugs
}

func (r *ContentRepository) ListPostsByTag(ctx context.Context, tag string) []model.PostMetadata {
	return filter(r.ListPostsMetadata(ctx), func(m model.PostMetadata) bool {
		return m.HasTag(tag)
	})
}

func (r *ContentRepository) ListTags(ctx context.Context) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})

	// Listing order, not date order.
	for _, post := range r.loadPosts(ctx) {
		for _, tag := range post.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func (r *ContentRepository) ListFeaturedPosts(ctx context.Context) []model.PostMetadata {
	return filter(r.ListPostsMetadata(ctx), func(m model.PostMetadata) bool {
		return m.Featured
	})
}

func (r *ContentRepository) ContentHashes(ctx context.Context) map[string]string {
	hashes := make(map[string]string)
	r.eachFile(ctx, func(slug string, raw []byte) {
		hashes[slug] = util.ContentHash(raw)
	})
	return hashes
}

// loadPosts parses every markdown file in source listing order, skipping
// files that cannot be read or decoded.
func (r *ContentRepository) loadPosts(ctx context.Context) []model.Post {
	posts := make([]model.Post, 0)
	r.eachFile(ctx, func(slug string, raw []byte) {
		post, err := r.parsePost(slug, raw)
		if err != nil {
			repoLogger.Warn().Err(err).Str("slug", slug).Msg(config.ErrParseFrontMatter)
			return
		}
		posts = append(posts, *post)
	})
	return posts
}

func (r *ContentRepository) eachFile(ctx context.Context, fn func(slug string, raw []byte)) {
	if !r.source.Exists(ctx) {
		repoLogger.Debug().Msg("Content source does not exist")
		return
	}

	names, err := r.source.List(ctx)
	if err != nil {
		repoLogger.Warn().Err(err).Msg(config.ErrListContent)
		return
	}

	for _, name := range names {
		if ctx.Err() != nil {
			repoLogger.Warn().Err(ctx.Err()).Msg(config.ErrListContent)
			return
		}

		slug, ok := strings.CutSuffix(name, config.MarkdownExt)
		if !ok || slug == "" {
			continue
		}

		raw, err := r.source.Read(ctx, name)
		if err != nil {
			repoLogger.Warn().Err(err).Str("name", name).Msg(config.ErrReadContent)
			continue
		}
		fn(slug, raw)
	}
}

func (r *ContentRepository) parsePost(slug string, raw []byte) (*model.Post, error) {
	fm, body, err := util.ParseFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	content := string(body)
	meta := model.NewPostMetadata(slug, fm)
	meta.ReadingTime = util.ReadingTime(content, r.wordsPerMinute)

	return &model.Post{
		PostMetadata: meta,
		Content:      content,
	}, nil
}

func metadataOf(posts []model.Post) []model.PostMetadata {
	out := make([]model.PostMetadata, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.PostMetadata)
	}
	return out
}

func filter(posts []model.PostMetadata, keep func(model.PostMetadata) bool) []model.PostMetadata {
	out := make([]model.PostMetadata, 0)
	for _, post := range posts {
		if keep(post) {
			out = append(out, post)
		}
	}
	return out
}
