package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/competitionkit/ozcomps/internal/api"
	"github.com/competitionkit/ozcomps/internal/config"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(c *config.Config) {
				if cmd.Flags().Changed("addr") {
					c.Addr = addr
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

// newServer builds the HTTP server for cfg
func newServer(cfg *config.Config) (*http.Server, error) {
	sc, err := newScraper(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating scraper: %w", err)
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(api.NewHandler(sc, cfg.Limit)),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}

	return serve(ctx, srv, ln, cfg.ShutdownTimeout)
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", logger.Fields{"addr": ln.Addr().String()})
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server", nil)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
