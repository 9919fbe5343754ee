package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/rs/zerolog"
)

func init() {
	setLoggers(zerolog.Nop())
}

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}

func exampleRepo() *repository.ContentRepository {
	return repository.NewContentRepository(repository.NewFSSource(fstest.MapFS{
		"a.md": file("---\ntitle: Alpha\ndate: \"2024-01-01\"\nauthor: Ada\ntags: [\"Go\"]\nfeatured: true\n---\nAlpha body\n"),
		"b.md": file("---\ntitle: Beta\ndate: \"2024-06-01\"\ntags: [\"go\", \"Rust\"]\n---\nBeta body\n"),
	}))
}

func writePosts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	posts := map[string]string{
		"hello.md": "---\ntitle: Hello\ndate: \"2024-03-01\"\ntags: [\"Go\"]\n---\n# Hello\n\nFirst post.\n",
		"notes.md": "---\ntitle: Notes\ndate: \"2024-04-01\"\nfeatured: true\n---\nSome notes.\n",
	}
	for name, content := range posts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestListPosts(t *testing.T) {
	repo := exampleRepo()

	tests := []struct {
		name     string
		opts     postsOptions
		contains []string
		excludes []string
	}{
		{"all", postsOptions{}, []string{"Alpha", "Beta", "(a)", "#go #Rust", "Ada"}, nil},
		{"tag", postsOptions{tag: "rust"}, []string{"Beta"}, []string{"Alpha"}},
		{"featured", postsOptions{featured: true}, []string{"Alpha", "★"}, []string{"Beta"}},
		{"tag and featured", postsOptions{tag: "GO", featured: true}, []string{"Alpha"}, []string{"Beta"}},
		{"nothing", postsOptions{tag: "python"}, []string{"No posts found."}, nil},
		{"tags", postsOptions{tags: true}, []string{"Go\ngo\nRust"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := listPosts(context.Background(), &buf, repo, &tt.opts); err != nil {
				t.Fatalf("listPosts: %v", err)
			}
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("Expected output not to contain %q, got:\n%s", unwanted, out)
				}
			}
		})
	}

	t.Run("newest first", func(t *testing.T) {
		var buf bytes.Buffer
		listPosts(context.Background(), &buf, repo, &postsOptions{})
		out := buf.String()
		if strings.Index(out, "Beta") > strings.Index(out, "Alpha") {
			t.Errorf("Expected Beta before Alpha, got:\n%s", out)
		}
	})
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.Content.Dir = writePosts(t)
	cfg.Features.LiveReload = true

	out := filepath.Join(t.TempDir(), "public")
	if err := build(context.Background(), cfg, out); err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, name := range []string{"index.html", "blog/hello/index.html", "blog/notes/index.html", "blog/tags/go/index.html", "feed.xml"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}

	page, _ := os.ReadFile(filepath.Join(out, "blog", "hello", "index.html"))
	if strings.Contains(string(page), "data-live-slug") {
		t.Error("Expected exported pages without live reload")
	}
	if !cfg.Features.LiveReload {
		t.Error("Expected build to leave the caller's config untouched")
	}
}

func TestNewAppArchiveSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")

	database := db.NewSQLite(path)
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	archive, err := repository.NewArchiveSource(database, config.CodecZstd)
	if err != nil {
		t.Fatalf("NewArchiveSource: %v", err)
	}
	if _, err := archive.Put(context.Background(), "packed.md", []byte("---\ntitle: Packed\ndate: \"2024-05-05\"\n---\nFrom the archive.\n"), time.Now()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	database.Close()

	cfg := config.Default()
	cfg.Content.Source = config.SourceArchive
	cfg.Content.Archive.Path = path

	a, err := newApp(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	post, ok := a.repo.GetPostBySlug(context.Background(), "packed")
	if !ok || post.Title != "Packed" {
		t.Errorf("Expected packed post from the archive, got %+v (%v)", post, ok)
	}
}

func TestNewAppUnknownRenderer(t *testing.T) {
	cfg := config.Default()
	cfg.Content.Dir = t.TempDir()
	cfg.Content.Renderer = "pandoc"

	if _, err := newApp(context.Background(), cfg, nil); err == nil {
		t.Error("Expected an error for an unknown renderer")
	}
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"serve", "build", "posts"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Expected %q subcommand, got %v (%v)", name, cmd, err)
		}
	}

	t.Run("posts end to end", func(t *testing.T) {
		originalAppConfig := config.AppConfig
		defer func() { config.AppConfig = originalAppConfig }()

		dir := writePosts(t)
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		cfgData := "content:\n  dir: " + dir + "\nlogging:\n  level: error\n"
		if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"--config", cfgPath, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "posts", "--featured"})
		if err := root.Execute(); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		setLoggers(zerolog.Nop())

		if out := buf.String(); !strings.Contains(out, "Notes") || strings.Contains(out, "Hello") {
			t.Errorf("Unexpected output:\n%s", out)
		}
	})
}
