package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/hcip-dashboard-go/internal/api"
	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/middleware"
)

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load data and serve the dashboard API",
		Long: `Serve loads the current data (memory, then the persisted cache, then the
sources) and starts the HTTP API. It stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rt)
		},
	}
}

func runServe(ctx context.Context, rt *runtime) error {
	cfg := rt.cfg
	logger := rt.logger

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res := a.store.Load(ctx, false)
	logger.Info().
		Str("outcome", res.Outcome).
		Int("tasks", res.TaskRows).
		Int("sites", res.SiteRows).
		Strs("warnings", res.Warnings).
		Msg("initial load complete")

	gin.SetMode(cfg.Server.Mode)
	router := api.SetupRouter(api.Dependencies{
		Source:   a.store,
		Calendar: a.pipeline,
		Runs:     a.runs,
		Tokens:   middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, clock.RealClock{}),
		Limiter:  middleware.NewRateLimiter(ctx, cfg.RateLimit.RefreshLimit, cfg.RateLimit.RefreshWindow, clock.RealClock{}),
		Logger:   logger,
	})
	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("auth.jwt_secret is not set; refresh endpoint is unauthenticated")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Cache.AutoRefresh > 0 {
		g.Go(func() error {
			a.store.Watch(gctx, cfg.Cache.AutoRefresh)
			return nil
		})
	}

	return g.Wait()
}
