package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/segue/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures RunServe.
type ServeOptions struct {
	Address string
	// MetricsAddress, if set, serves /metrics on a separate listener.
	MetricsAddress string
}

// Handler builds the HTTP handler for app.
func Handler(app *App, withMetrics bool) http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithStreams(app.Streams),
		httpAdapter.WithLogger(app.Logger),
	}
	if withMetrics {
		opts = append(opts, httpAdapter.WithMetricsHandler(metricsHandler(app)))
	}
	return httpAdapter.NewHandler(app.Engine, opts...)
}

func metricsHandler(app *App) http.Handler {
	return promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})
}

// RunServe serves the HTTP API until ctx is cancelled or a signal arrives.
func RunServe(ctx context.Context, app *App, opts ServeOptions) error {
	sigCtx, stop := notifyContext(ctx)
	defer stop()

	if err := app.Engine.Initialize(sigCtx); err != nil {
		return err
	}

	servers := []*http.Server{{
		Addr:    opts.Address,
		Handler: Handler(app, opts.MetricsAddress == ""),
	}}
	if opts.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler(app))
		servers = append(servers, &http.Server{Addr: opts.MetricsAddress, Handler: mux})
	}

	g, gctx := errgroup.WithContext(sigCtx)
	for _, srv := range servers {
		g.Go(func() error {
			app.Logger.Info("Starting server", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("Graceful shutdown did not complete", "address", srv.Addr, "error", err)
				errs = append(errs, srv.Close())
			}
		}
		app.Logger.Info("Servers stopped", "cause", context.Cause(gctx))
		return errors.Join(errs...)
	})

	return g.Wait()
}
