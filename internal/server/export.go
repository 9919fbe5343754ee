package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/routes"
)

// ExportResult counts the files written by Export.
type ExportResult struct {
	Pages  int
	Assets int
}

// exportTags lower-cases tags for use in URLs, dropping the duplicates that
// only differ by case.
func exportTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}
	return out
}

// exportPage pairs the escaped request target with the unescaped path the
// page is written under, which is what static hosts look up after decoding.
type exportPage struct {
	target string
	file   string
}

// checkOutDir refuses output directories whose removal would take the
// working directory, the filesystem root or the content with it.
func checkOutDir(outDir, contentDir string) error {
	out, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", outDir, err)
	}
	if out == filepath.Dir(out) {
		return fmt.Errorf("refusing to export into the filesystem root %s", out)
	}
	if cwd, err := os.Getwd(); err == nil && out == cwd {
		return fmt.Errorf("refusing to export into the working directory %s", out)
	}

	if contentDir == "" {
		return nil
	}
	content, err := filepath.Abs(contentDir)
	if err != nil {
		return fmt.Errorf("failed to resolve content directory %s: %w", contentDir, err)
	}
	if rel, err := filepath.Rel(out, content); err == nil && (rel == "." || filepath.IsLocal(rel)) {
		return fmt.Errorf("refusing to export into %s, it contains the content directory %s", out, content)
	}
	return nil
}

// Export renders the whole site into outDir by requesting every page from the
// server in-process. Pages end up as <path>/index.html so any static file
// host serves them under the same URLs.
func (s *Server) Export(ctx context.Context, outDir string) (ExportResult, error) {
	var res ExportResult

	contentDir := ""
	if s.cfg.Content.Source == config.SourceFS {
		contentDir = s.cfg.Content.Dir
	}
	if err := checkOutDir(outDir, contentDir); err != nil {
		return res, err
	}

	if err := os.RemoveAll(outDir); err != nil {
		return res, fmt.Errorf("failed to clean output directory %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	pages := []exportPage{
		{routes.RootPath, routes.RootPath},
		{routes.BlogPath, routes.BlogPath},
	}
	for _, slug := range s.repo.ListSlugs(ctx) {
		pages = append(pages, exportPage{postPath(slug), config.BlogUrlPath + slug})
	}
	for _, tag := range exportTags(s.repo.ListTags(ctx)) {
		pages = append(pages, exportPage{tagPath(tag), config.TagsUrlPath + tag})
	}

	for _, page := range pages {
		// "..", "." or empty segments would land on another page's file.
		if path.Clean(page.file) != page.file {
			serverLogger.Warn().Str("path", page.file).Msg("Skipping page that cannot be written as a file")
			continue
		}
		dest := filepath.Join(outDir, filepath.FromSlash(page.file), "index.html")
		if err := s.exportURL(ctx, page.target, dest, http.StatusOK); err != nil {
			return res, err
		}
		res.Pages++
	}

	files := map[string]bool{
		routes.RobotsPath:  true,
		routes.FeedPath:    s.cfg.Features.Feed,
		routes.SitemapPath: s.cfg.Features.Sitemap,
	}
	for file, enabled := range files {
		if !enabled {
			continue
		}
		if err := s.exportURL(ctx, file, filepath.Join(outDir, filepath.FromSlash(file)), http.StatusOK); err != nil {
			return res, err
		}
		res.Pages++
	}

	if err := s.exportURL(ctx, "/404.html", filepath.Join(outDir, "404.html"), http.StatusNotFound); err != nil {
		return res, err
	}
	res.Pages++

	assets, err := s.exportStatic(filepath.Join(outDir, config.StaticLocalDir))
	res.Assets = assets
	return res, err
}

func (s *Server) exportURL(ctx context.Context, target, dest string, wantStatus int) error {
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		return fmt.Errorf("exporting %s: got status %d, want %d", target, rec.Code, wantStatus)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("exporting %s: %w", target, err)
	}
	if err := os.WriteFile(dest, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("exporting %s: %w", target, err)
	}

	serverLogger.Debug().Str("url", target).Str("file", dest).Msg("Exported page")
	return nil
}

func (s *Server) exportStatic(dest string) (int, error) {
	count := 0
	err := fs.WalkDir(s.static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(s.static, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to copy static assets: %w", err)
	}
	return count, nil
}
