package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/handler"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/metrics"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/mockapi"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "backoffice",
	Short:        "Back-office workflow service for urban-development case files",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Serve an in-memory backend with seeded case files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serveMock(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML configuration")
	rootCmd.AddCommand(serveCmd, mockapiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it is absent
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		config.GlobalConfig = cfg
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "backoffice",
	})
	slog.Info("configuration loaded", "path", configPath, "backend", cfg.Backend.BaseURL)
	return cfg, nil
}

func serve(cfg *config.Config) error {
	backend := service.NewBackend(service.NewClient(&cfg.Backend))

	var stager handler.Stager
	if cfg.Minio.Enabled {
		minioSvc, err := service.NewMinioService(&cfg.Minio)
		if err != nil {
			return fmt.Errorf("failed to initialize MINIO service: %w", err)
		}
		if err := minioSvc.EnsureBucket(context.Background()); err != nil {
			return fmt.Errorf("failed to ensure MINIO bucket: %w", err)
		}
		stager = minioSvc
		slog.Info("staging uploads in MINIO", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	}

	api := handler.NewAPI(cfg, backend, stager)
	defer api.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger("/health", "/metrics"))
	router.Use(corsMiddleware())
	router.Use(cacheMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateLimitBurst))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"sessions":  api.Registry.Count(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api.Register(router.Group("/api"))

	// WriteTimeout stays off: the snapshot stream is long-lived
	return run(&http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	})
}

func serveMock(cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)
	api := mockapi.NewServer(mockapi.Seeded())
	router := api.Router(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
	)

	return run(&http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.MockAPI.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
}

// run serves srv until SIGINT or SIGTERM, then shuts it down gracefully
func run(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// cacheMiddleware keeps API answers out of browser caches
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
		}
		c.Next()
	}
}
