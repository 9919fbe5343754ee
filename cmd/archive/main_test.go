package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestArchiveDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "one.md", "---\ntitle: One\ndate: \"2024-01-01\"\n---\nBody one\n")
	writeFile(t, dir, "two.md", "+++\ntitle = \"Two\"\ndate = \"2024-02-01\"\n+++\nBody two\n")
	writeFile(t, dir, "broken.md", "---\ntitle: [unclosed\n---\nBody\n")
	writeFile(t, dir, "notes.txt", "not markdown")
	if err := os.Mkdir(filepath.Join(dir, "drafts.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	database := db.NewSQLite(filepath.Join(t.TempDir(), "content.db"))
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer database.Close()

	archive, err := repository.NewArchiveSource(database, config.CodecGzip)
	if err != nil {
		t.Fatalf("NewArchiveSource: %v", err)
	}

	res, err := archiveDir(ctx, zerolog.Nop(), dir, archive, false)
	if err != nil {
		t.Fatalf("archiveDir: %v", err)
	}
	if want := (stats{Saved: 2, Skipped: 1}); res != want {
		t.Errorf("Expected %+v, got %+v", want, res)
	}

	t.Run("unchanged files are not rewritten", func(t *testing.T) {
		res, err := archiveDir(ctx, zerolog.Nop(), dir, archive, false)
		if err != nil {
			t.Fatalf("archiveDir: %v", err)
		}
		if res.Saved != 0 || res.Unchanged != 2 {
			t.Errorf("Expected only unchanged files, got %+v", res)
		}
	})

	t.Run("prune removes deleted files", func(t *testing.T) {
		os.Remove(filepath.Join(dir, "two.md"))

		res, err := archiveDir(ctx, zerolog.Nop(), dir, archive, true)
		if err != nil {
			t.Fatalf("archiveDir: %v", err)
		}
		if res.Pruned != 1 {
			t.Errorf("Expected one pruned file, got %+v", res)
		}

		names, _ := archive.List(ctx)
		if want := []string{"one.md"}; !reflect.DeepEqual(names, want) {
			t.Errorf("Expected %v archived, got %v", want, names)
		}
	})

	t.Run("archived posts are readable", func(t *testing.T) {
		repo := repository.NewContentRepository(archive)
		post, ok := repo.GetPostBySlug(ctx, "one")
		if !ok || post.Title != "One" {
			t.Errorf("Expected post One, got %+v (%v)", post, ok)
		}
	})
}

func TestArchiveDirMissing(t *testing.T) {
	database := db.NewSQLite(db.MemoryPath)
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer database.Close()

	archive, _ := repository.NewArchiveSource(database, "")
	if _, err := archiveDir(context.Background(), zerolog.Nop(), filepath.Join(t.TempDir(), "missing"), archive, false); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "one.md", "---\ntitle: One\n---\nBody one\n")
	dbPath := filepath.Join(t.TempDir(), "content.db")

	tests := []struct {
		name    string
		opts    options
		wantErr bool
	}{
		{"missing path flag", options{db: dbPath, codec: config.CodecZstd}, true},
		{"unknown codec", options{path: dir, db: dbPath, codec: "lz4"}, true},
		{"missing directory", options{path: filepath.Join(dir, "missing"), db: dbPath, codec: config.CodecZstd}, true},
		{"archives", options{path: dir, db: dbPath, codec: config.CodecZstd}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(ctx, zerolog.Nop(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}

	database := db.NewSQLite(dbPath)
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer database.Close()
	archive, _ := repository.NewArchiveSource(database, config.CodecZstd)
	if names, _ := archive.List(ctx); !reflect.DeepEqual(names, []string{"one.md"}) {
		t.Errorf("Expected one.md archived, got %v", names)
	}
}
