package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/handlers"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/platform/jobs"
	"github.com/SscSPs/studio_ops_app/internal/platform/metrics"
	"github.com/SscSPs/studio_ops_app/internal/platform/seed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().Bool("no-jobs", false, "Do not start the scheduled maintenance jobs")
	serveCmd.Flags().Bool("no-seed", false, "Do not seed an empty store")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. On start the store is opened (and migrated for postgres),
seeded from SEED_FILE when it holds no packages or cards, and the promo expiry
and reconcile jobs are scheduled.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if noSeed, _ := cmd.Flags().GetBool("no-seed"); !noSeed {
		f, err := seed.LoadIfExists(cfg.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.Apply(ctx, repos, f, time.Now()); err != nil {
			return err
		}
	}

	container := services.NewServiceContainer(cfg, repos,
		services.WithLocation(cfg.Location),
		services.WithEventRecorder(metrics.Recorder{}),
	)

	if noJobs, _ := cmd.Flags().GetBool("no-jobs"); !noJobs {
		scheduler, err := jobs.NewScheduler(cfg, container, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics, cors)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
