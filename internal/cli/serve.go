package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/adapter/http/handler"
	"github.com/crimson-sun/langdetect/internal/adapter/http/router"
	"github.com/crimson-sun/langdetect/internal/cache"
	"github.com/crimson-sun/langdetect/internal/engine"
	"github.com/crimson-sun/langdetect/internal/metrics"
)

const shutdownTimeout = 30 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the detection HTTP API",
		Long: `Serve the detection API:

  GET  /, /detect/info, /api/v1/    language code to display name table
  POST /detect, /api/v1/detect      {"text": "..."}
  POST /detect/batch                {"texts": ["...", ...]}
  GET  /health, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if host != "" {
				a.cfg.Server.Host = host
			}
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from LANGDETECT_HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from LANGDETECT_PORT)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	det, err := a.loadDetector(engine.WithInferenceObserver(m.ObserveInference))
	if err != nil {
		return err
	}
	defer det.Close()

	opts := []handler.Option{
		handler.WithLogger(a.log),
		handler.WithMetrics(m),
		handler.WithMaxBatch(a.cfg.Server.MaxBatch),
		handler.WithMaxBody(a.cfg.Server.MaxBody),
	}
	var pinger handler.Pinger
	if a.cfg.Cache.Enabled() {
		// The cache is optional; continue without it.
		c, err := cache.New(ctx, a.cfg.Cache, det.Labels())
		if err != nil {
			a.log.Warn("failed to connect to redis, continuing without cache", zap.Error(err))
		} else {
			a.log.Info("connected to redis", zap.String("addr", a.cfg.Cache.Addr))
			defer c.Close()
			opts = append(opts, handler.WithCache(c))
			pinger = c
		}
	}

	gin.SetMode(a.cfg.Server.Mode)
	r := router.Setup(router.Deps{
		Detect:   handler.NewDetectHandler(det, opts...),
		Health:   handler.NewHealthHandler(det, pinger),
		Gatherer: reg,
		Logger:   a.log,
	})

	addr := a.cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.log.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	a.log.Info("server exited")
	return nil
}
