package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)
	// This test mainly ensures the function doesn't panic
}

func TestApplyDefaults(t *testing.T) {
	t.Run("Config struct defaults", func(t *testing.T) {
		config := &Config{}
		applyDefaults(config)

		if config.Version != SupportedVersion {
			t.Errorf("Expected version %q, got %q", SupportedVersion, config.Version)
		}

		// Test Site defaults
		if config.Site.Name != "Folio" {
			t.Errorf("Expected site name 'Folio', got %q", config.Site.Name)
		}
		if config.Site.URL != "http://localhost:12600" {
			t.Errorf("Expected default site URL, got %q", config.Site.URL)
		}

		// Test Server defaults
		if config.Server.Host != "0.0.0.0" {
			t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
		}
		if config.Server.Port != "12600" {
			t.Errorf("Expected port '12600', got %q", config.Server.Port)
		}

		// Test Theme defaults
		if config.Theme.Default != DarkTheme {
			t.Errorf("Expected theme %q, got %q", DarkTheme, config.Theme.Default)
		}
		if !config.Theme.AllowSwitching {
			t.Error("Expected theme switching to be enabled by default")
		}
		if config.Theme.SyntaxHighlighting.DefaultDark != DefaultDarkSyntaxTheme {
			t.Errorf("Expected dark syntax theme %q, got %q", DefaultDarkSyntaxTheme, config.Theme.SyntaxHighlighting.DefaultDark)
		}
		if config.Theme.SyntaxHighlighting.DefaultLight != DefaultLightSyntaxTheme {
			t.Errorf("Expected light syntax theme %q, got %q", DefaultLightSyntaxTheme, config.Theme.SyntaxHighlighting.DefaultLight)
		}

		// Test Content defaults
		if config.Content.Source != SourceFS {
			t.Errorf("Expected content source %q, got %q", SourceFS, config.Content.Source)
		}
		if config.Content.Dir != "content/blog" {
			t.Errorf("Expected content dir 'content/blog', got %q", config.Content.Dir)
		}
		if config.Content.Renderer != RendererGomarkdown {
			t.Errorf("Expected renderer %q, got %q", RendererGomarkdown, config.Content.Renderer)
		}
		if config.Content.WordsPerMinute != 200 {
			t.Errorf("Expected 200 words per minute, got %d", config.Content.WordsPerMinute)
		}
		if config.Content.S3.Region != "auto" {
			t.Errorf("Expected S3 region 'auto', got %q", config.Content.S3.Region)
		}
		if config.Content.Archive.Codec != CodecZstd {
			t.Errorf("Expected archive codec %q, got %q", CodecZstd, config.Content.Archive.Codec)
		}

		// Test Features defaults
		if !config.Features.LiveReload {
			t.Error("Expected live reload to be enabled by default")
		}
		if !config.Features.Feed || !config.Features.Sitemap || !config.Features.Compression {
			t.Error("Expected feed, sitemap and compression to be enabled by default")
		}

		// Test Meta defaults
		expectedKeywords := []string{"blog", "portfolio", "web development"}
		if !reflect.DeepEqual(config.Meta.Keywords, expectedKeywords) {
			t.Errorf("Expected keywords %v, got %v", expectedKeywords, config.Meta.Keywords)
		}

		// Test Logging defaults
		if config.Logging.Level != "info" {
			t.Errorf("Expected logging level 'info', got %q", config.Logging.Level)
		}
		if config.Logging.Format != "console" {
			t.Errorf("Expected logging format 'console', got %q", config.Logging.Format)
		}
	})

	t.Run("Custom struct with various field types", func(t *testing.T) {
		type TestStruct struct {
			StringField  string   `default:"test-string"`
			BoolField    bool     `default:"true"`
			IntField     int      `default:"42"`
			Float64Field float64  `default:"3.14"`
			SliceField   []string `default:"a,b,c"`
			NoDefault    string   // No default tag
		}

		test := &TestStruct{}
		applyDefaults(test)

		if test.StringField != "test-string" {
			t.Errorf("Expected string field 'test-string', got %q", test.StringField)
		}
		if !test.BoolField {
			t.Error("Expected bool field to be true")
		}
		if test.IntField != 42 {
			t.Errorf("Expected int field 42, got %d", test.IntField)
		}
		if test.Float64Field != 3.14 {
			t.Errorf("Expected float64 field 3.14, got %f", test.Float64Field)
		}
		expectedSlice := []string{"a", "b", "c"}
		if !reflect.DeepEqual(test.SliceField, expectedSlice) {
			t.Errorf("Expected slice %v, got %v", expectedSlice, test.SliceField)
		}
		if test.NoDefault != "" {
			t.Errorf("Expected no default field to be empty, got %q", test.NoDefault)
		}
	})

	t.Run("Non-struct input", func(t *testing.T) {
		// Should not panic with non-struct inputs
		stringVar := "test"
		applyDefaults(&stringVar)
		applyDefaults(stringVar)
		applyDefaults(42)
		applyDefaults(nil)
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	t.Run("Load non-existent config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		if err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Errorf("Expected no error for non-existent config file, got %v", err)
		}
		if AppConfig == nil {
			t.Fatal("Expected AppConfig to be set with defaults")
		}
		if AppConfig.Site.Name != "Folio" {
			t.Errorf("Expected default site name, got %q", AppConfig.Site.Name)
		}
	})

	t.Run("Load valid config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := writeConfig(t, `
version: "1"
site:
  name: "Test Blog"
server:
  port: "8080"
content:
  source: archive
  renderer: goldmark
  words_per_minute: 250
  archive:
    path: /tmp/posts.db
features:
  live_reload: false
  reload_interval: 5s
`)

		if err := LoadConfig(path); err != nil {
			t.Fatalf("Expected no error loading valid config, got %v", err)
		}

		if AppConfig.Site.Name != "Test Blog" {
			t.Errorf("Expected site name 'Test Blog', got %q", AppConfig.Site.Name)
		}
		if AppConfig.Addr() != "0.0.0.0:8080" {
			t.Errorf("Expected addr '0.0.0.0:8080', got %q", AppConfig.Addr())
		}
		if AppConfig.Content.Source != SourceArchive {
			t.Errorf("Expected archive source, got %q", AppConfig.Content.Source)
		}
		if AppConfig.Content.Renderer != RendererGoldmark {
			t.Errorf("Expected goldmark renderer, got %q", AppConfig.Content.Renderer)
		}
		if AppConfig.Content.WordsPerMinute != 250 {
			t.Errorf("Expected 250 words per minute, got %d", AppConfig.Content.WordsPerMinute)
		}
		if AppConfig.Content.Archive.Path != "/tmp/posts.db" {
			t.Errorf("Expected archive path '/tmp/posts.db', got %q", AppConfig.Content.Archive.Path)
		}
		if AppConfig.Features.LiveReload {
			t.Error("Expected live reload to be disabled")
		}
		if AppConfig.ReloadEvery() != 5*time.Second {
			t.Errorf("Expected 5s reload interval, got %v", AppConfig.ReloadEvery())
		}

		// Verify defaults were still applied for unspecified fields
		if AppConfig.Content.Archive.Codec != CodecZstd {
			t.Errorf("Expected default codec, got %q", AppConfig.Content.Archive.Codec)
		}
	})

	t.Run("Load invalid YAML file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := writeConfig(t, "site:\n  name: \"Test Blog\"\n  invalid yaml syntax [\n")
		err := LoadConfig(path)
		if err == nil {
			t.Fatal("Expected error for invalid YAML")
		}
		if !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Secrets come from the environment", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		t.Setenv(EnvS3AccessKeyID, "key-id")
		t.Setenv(EnvS3SecretAccessKey, "secret")

		path := writeConfig(t, "content:\n  source: s3\n  s3:\n    bucket: posts\n")
		if err := LoadConfig(path); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if AppConfig.Content.S3.AccessKeyID != "key-id" || AppConfig.Content.S3.SecretAccessKey != "secret" {
			t.Errorf("Expected credentials from env, got %q / %q",
				AppConfig.Content.S3.AccessKeyID, AppConfig.Content.S3.SecretAccessKey)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errorText string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unsupported version", func(c *Config) { c.Version = "2" }, "unsupported configuration version"},
		{"unknown source", func(c *Config) { c.Content.Source = "ftp" }, "unknown content source"},
		{"unknown renderer", func(c *Config) { c.Content.Renderer = "pandoc" }, "unknown markdown renderer"},
		{"s3 without bucket", func(c *Config) { c.Content.Source = SourceS3 }, "requires content.s3.bucket"},
		{"zero reading speed", func(c *Config) { c.Content.WordsPerMinute = 0 }, "words_per_minute"},
		{"bad reload interval", func(c *Config) { c.Features.ReloadInterval = "soon" }, "reload_interval"},
		{"bad shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = "later" }, "shutdown_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorText == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.errorText)
			}
			if !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Expected error to contain %q, got %q", tt.errorText, err.Error())
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if cfg.ReloadEvery() != 2*time.Second {
		t.Errorf("Expected default reload interval 2s, got %v", cfg.ReloadEvery())
	}
	if cfg.ShutdownGrace() != 10*time.Second {
		t.Errorf("Expected default shutdown grace 10s, got %v", cfg.ShutdownGrace())
	}

	cfg.Features.ReloadInterval = "-1s"
	if cfg.ReloadEvery() != 2*time.Second {
		t.Errorf("Expected fallback for negative interval, got %v", cfg.ReloadEvery())
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvS3AccessKeyID, "key")
	t.Setenv(EnvS3SecretAccessKey, "secret")
	t.Setenv(EnvLogLevel, "")

	cfg := Default()
	level := cfg.Logging.Level
	ApplyEnv(cfg)

	if cfg.Content.S3.AccessKeyID != "key" || cfg.Content.S3.SecretAccessKey != "secret" {
		t.Errorf("Expected S3 credentials from the environment, got %+v", cfg.Content.S3)
	}
	if cfg.Logging.Level != level {
		t.Errorf("Expected empty %s to keep level %q, got %q", EnvLogLevel, level, cfg.Logging.Level)
	}

	t.Setenv(EnvLogLevel, "debug")
	ApplyEnv(cfg)
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %q", cfg.Logging.Level)
	}
}
