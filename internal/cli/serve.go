package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.AppConfig
			if addr == "" {
				addr = cfg.Addr()
			}
			return serve(ctx, cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.host and server.port")
	return cmd
}

// serve runs until ctx is cancelled, then drains open requests for at most
// the configured shutdown timeout.
func serve(ctx context.Context, cfg *config.Config, addr string) error {
	a, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.server.WarmCache(ctx)

	if cfg.Features.LiveReload {
		watcher := repository.NewWatcher(a.repo, cfg.ReloadEvery(), a.server.NotifyReload)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				cliLogger.Error().Err(err).Msg(config.ErrReloadingPosts)
			}
		}()
	}

	// Event streams only end when their request context does, so requests
	// hang off a context cancelled at shutdown.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		cliLogger.Info().Str("addr", addr).Str("source", cfg.Content.Source).Str("renderer", cfg.Content.Renderer).Msg("Starting server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	cliLogger.Info().Msg("Shutting down server")
	cancelRequests()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
