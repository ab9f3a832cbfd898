package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/hedgehog/internal/bridge"
	"github.com/alexanderramin/hedgehog/internal/suggest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor bridge on stdin and stdout",
		Long: `Reads JSON requests from an editor plugin on stdin, one per line, and
writes responses to stdout. Logs go to stderr. Exits when stdin closes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "also serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")

	return cmd
}

func (app *App) serve(ctx context.Context, metricsAddr string) error {
	srv := bridge.NewServer(app.Client,
		[]bridge.Option{bridge.WithLogger(app.Logger)},
		suggest.WithMetrics(app.Metrics),
	)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		app.Logger.Info("bridge started")
		return srv.Serve(ctx, app.Stdin, app.Stdout)
	})

	if metricsAddr != "" {
		httpSrv := &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsRouter(app.Registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			app.Logger.Info("metrics listening", zap.String("addr", metricsAddr))
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer done()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	return r
}
