package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mr1hm/go-crop-advisor/internal/api"
	"github.com/mr1hm/go-crop-advisor/internal/catalog"
	"github.com/mr1hm/go-crop-advisor/internal/config"
	internalgrpc "github.com/mr1hm/go-crop-advisor/internal/grpc"
	"github.com/mr1hm/go-crop-advisor/internal/ingestion"
	"github.com/mr1hm/go-crop-advisor/internal/logging"
	"github.com/mr1hm/go-crop-advisor/internal/metrics"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "catalog_source", cfg.Catalog.Source)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, closeProvider, err := newProvider(ctx, cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize catalog provider: %v", err)
	}
	defer closeProvider()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Catalog change events fan out to SSE subscribers
	broadcaster := internalgrpc.NewBroadcaster()

	grpcServer := internalgrpc.NewServer()
	go func() {
		grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		if err := grpcServer.Start(grpcAddr); err != nil {
			logging.Fatalf("gRPC server error: %v", err)
		}
	}()

	mgr := ingestion.NewManager(cfg, provider, db, broadcaster)
	mgr.SetHealth(grpcServer)
	mgr.SetMetrics(m)
	mgr.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware())
	router.Use(m.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.API.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logging.RequestIDHeader},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimit, cfg.API.RateBurst))

	handler := api.NewHandler(db, broadcaster)
	handler.SetMetrics(m)
	handler.SetSyncStatus(mgr)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()
	broadcaster.Close() // ends open event streams
	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func newProvider(ctx context.Context, cfg *config.Config) (catalog.Provider, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case catalog.SourceREST:
		return catalog.NewREST(catalog.RESTConfig{
			BaseURL:         cfg.Catalog.PlatformURL,
			APIKey:          cfg.Catalog.PlatformKey,
			Timeout:         cfg.Catalog.Timeout,
			MaxRetries:      cfg.Catalog.MaxRetries,
			BreakerFailures: cfg.Catalog.BreakerFailures,
			BreakerOpen:     cfg.Catalog.BreakerOpen,
		}), noop, nil
	case catalog.SourcePostgres:
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
		defer cancel()
		pg, err := catalog.NewPostgres(pingCtx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return pg, pg.Close, nil
	default:
		return catalog.NewBuiltin(), noop, nil
	}
}
