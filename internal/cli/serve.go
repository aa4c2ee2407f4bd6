package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/api"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func newServer(a *app) *http.Server {
	return &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           api.NewRouter(a.cfg, a.repos, a.sessions, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := newServer(a)
	go a.sessions.Sweep(ctx, a.cfg.Cart.SessionIdleTTL)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Storefront listening",
			zap.String("port", a.cfg.Port),
			zap.String("environment", a.cfg.Environment),
			zap.String("storage", a.cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("Storefront stopped")
	return nil
}
