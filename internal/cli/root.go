// Package cli holds the folio command line: serving the site, exporting it as
// static files and listing posts.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cliLogger zerolog.Logger

type rootOptions struct {
	configFile string
	envFile    string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "Markdown blog and portfolio server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "config.yaml", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(BuildCmd())
	rootCmd.AddCommand(PostsCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		cliLogger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// initialize loads the environment and the configuration, then hands the
// configured logger to every package.
func initialize(opts *rootOptions) error {
	bootstrap := logger.New("info", logger.FormatConsole)
	cliLogger = bootstrap
	config.SetLogger(bootstrap)

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootstrap.Warn().Err(err).Str("path", opts.envFile).Msg("Error loading env file")
	}

	if err := config.LoadConfig(opts.configFile); err != nil {
		return err
	}

	l := logger.New(config.AppConfig.Logging.Level, config.AppConfig.Logging.Format)
	setLoggers(l)
	return nil
}

func setLoggers(l zerolog.Logger) {
	cliLogger = l
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
	server.SetLogger(l.With().Str("component", "server").Logger())
}
