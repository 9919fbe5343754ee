package repository

import (
	"context"
	"sort"
	"time"
)

type HashLister interface {
	ContentHashes(ctx context.Context) map[string]string
}

// Watcher polls a repository and reports posts whose files changed or
// disappeared since the previous poll.
type Watcher struct {
	repo     HashLister
	interval time.Duration
	notify   func(slug string)

	snapshot map[string]string
}

func NewWatcher(repo HashLister, interval time.Duration, notify func(slug string)) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		repo:     repo,
		interval: interval,
		notify:   notify,
	}
}

// Poll takes a new snapshot and returns the slugs that changed, sorted.
// The first call only records the baseline.
func (w *Watcher) Poll(ctx context.Context) []string {
	current := w.repo.ContentHashes(ctx)
	if ctx.Err() != nil {
		return nil
	}

	previous := w.snapshot
	w.snapshot = current
	if previous == nil {
		return nil
	}

	var changed []string
	for slug, oldHash := range previous {
		newHash, ok := current[slug]
		switch {
		case !ok:
			repoLogger.Info().Str("slug", slug).Msg("Post removed")
		case newHash != oldHash:
			repoLogger.Info().Str("slug", slug).Msg("Post content changed, reloading")
		default:
			continue
		}
		changed = append(changed, slug)
	}
	for slug := range current {
		if _, ok := previous[slug]; !ok {
			repoLogger.Info().Str("slug", slug).Msg("New post detected")
		}
	}

	sort.Strings(changed)
	if w.notify != nil {
		for _, slug := range changed {
			w.notify(slug)
		}
	}
	return changed
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.Poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}
