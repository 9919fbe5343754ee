package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// SupportedVersion is the only configuration file version this build understands.
const SupportedVersion = "1"

// Config represents the complete configuration structure
type Config struct {
	Version  string         `yaml:"version" default:"1"`
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Theme    ThemeConfig    `yaml:"theme"`
	Content  ContentConfig  `yaml:"content"`
	Features FeaturesConfig `yaml:"features"`
	Meta     MetaConfig     `yaml:"meta"`
	Social   SocialConfig   `yaml:"social"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Folio"`
	Description string `yaml:"description" default:"Notes, tutorials and insights on web development"`
	Tagline     string `yaml:"tagline" default:"Portfolio and blog"`
	URL         string `yaml:"url" default:"http://localhost:12600"`
}

type ServerConfig struct {
	Host            string `yaml:"host" default:"0.0.0.0"`
	Port            string `yaml:"port" default:"12600"`
	ShutdownTimeout string `yaml:"shutdown_timeout" default:"10s"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type ContentConfig struct {
	// Source selects where posts are read from: fs, s3 or archive.
	Source         string        `yaml:"source" default:"fs"`
	Dir            string        `yaml:"dir" default:"content/blog"`
	Renderer       string        `yaml:"renderer" default:"gomarkdown"`
	WordsPerMinute int           `yaml:"words_per_minute" default:"200"`
	RecentPosts    int           `yaml:"recent_posts" default:"3"`
	S3             S3Config      `yaml:"s3"`
	Archive        ArchiveConfig `yaml:"archive"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket" default:""`
	Prefix       string `yaml:"prefix" default:"blog/"`
	Endpoint     string `yaml:"endpoint" default:""`
	Region       string `yaml:"region" default:"auto"`
	UsePathStyle bool   `yaml:"use_path_style" default:"false"`

	// Credentials are never read from the file; see ApplyEnv.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type ArchiveConfig struct {
	Path  string `yaml:"path" default:"./content.db"`
	Codec string `yaml:"codec" default:"zstd"`
}

type FeaturesConfig struct {
	LiveReload     bool   `yaml:"live_reload" default:"true"`
	ReloadInterval string `yaml:"reload_interval" default:"2s"`
	Feed           bool   `yaml:"feed" default:"true"`
	Sitemap        bool   `yaml:"sitemap" default:"true"`
	Compression    bool   `yaml:"compression" default:"true"`
}

type MetaConfig struct {
	Author   string   `yaml:"author" default:""`
	Keywords []string `yaml:"keywords" default:"blog,portfolio,web development"`
	Favicon  string   `yaml:"favicon" default:"/static/favicon.svg"`
}

type SocialConfig struct {
	GitHub   string `yaml:"github" default:""`
	Twitter  string `yaml:"twitter" default:""`
	LinkedIn string `yaml:"linkedin" default:""`
	Email    string `yaml:"email" default:""`
}

var AppConfig *Config

// Default returns a configuration with every default value applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func LoadConfig(path string) error {
	config := Default()

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		ApplyEnv(config)
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ApplyEnv(config)
	AppConfig = config
	return nil
}

// ApplyEnv fills secrets that must not live in the config file.
func ApplyEnv(config *Config) {
	if v := os.Getenv(EnvS3AccessKeyID); v != "" {
		config.Content.S3.AccessKeyID = v
	}
	if v := os.Getenv(EnvS3SecretAccessKey); v != "" {
		config.Content.S3.SecretAccessKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("unsupported configuration version %q (expected %q)", c.Version, SupportedVersion)
	}
	if !slices.Contains(ContentSources, c.Content.Source) {
		return fmt.Errorf("unknown content source %q (expected one of %s)", c.Content.Source, strings.Join(ContentSources, ", "))
	}
	if !slices.Contains(MarkdownRenderers, c.Content.Renderer) {
		return fmt.Errorf("unknown markdown renderer %q (expected one of %s)", c.Content.Renderer, strings.Join(MarkdownRenderers, ", "))
	}
	if c.Content.Source == SourceS3 && c.Content.S3.Bucket == "" {
		return fmt.Errorf("content source %q requires content.s3.bucket", SourceS3)
	}
	if c.Content.WordsPerMinute <= 0 {
		return fmt.Errorf("content.words_per_minute must be positive, got %d", c.Content.WordsPerMinute)
	}
	if _, err := time.ParseDuration(c.Features.ReloadInterval); err != nil {
		return fmt.Errorf("invalid features.reload_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	return nil
}

// ReloadEvery returns the live reload poll interval.
func (c *Config) ReloadEvery() time.Duration {
	d, err := time.ParseDuration(c.Features.ReloadInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

func (c *Config) ShutdownGrace() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
