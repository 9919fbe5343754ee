package cli

import (
	"context"
	"fmt"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Long: `The build command renders the home page, the blog index, every post,
every tag page, the feed, the sitemap and the 404 page, and copies the static
assets, producing a directory any static file host can serve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return build(cmd.Context(), config.AppConfig, outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "public", "output directory, emptied before the export")
	return cmd
}

func build(ctx context.Context, cfg *config.Config, outDir string) error {
	// A static export has no event stream to reload from.
	exportCfg := *cfg
	exportCfg.Features.LiveReload = false

	a, err := newApp(ctx, &exportCfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.server.Export(ctx, outDir)
	if err != nil {
		return fmt.Errorf("static export failed: %w", err)
	}

	cliLogger.Info().Str("out", outDir).Int("pages", res.Pages).Int("assets", res.Assets).Msg("Site exported")
	return nil
}
