// cmd/filmorate/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpAPI "github.com/XevgenX/go-filmorate/internal/api"
	"github.com/XevgenX/go-filmorate/internal/config"
	grpcServer "github.com/XevgenX/go-filmorate/internal/grpc"
	"github.com/XevgenX/go-filmorate/internal/service"
	"github.com/XevgenX/go-filmorate/internal/store"
	"github.com/XevgenX/go-filmorate/internal/validation"
)

// openBackend создает хранилище, выбранное в конфигурации.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Backend, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Info("Using in-memory storage")
		return store.NewMemoryDB(logger), nil
	}

	driver := store.DriverPostgres
	if cfg.Storage == config.StorageSQLite {
		driver = store.DriverSQLite
	}
	logger.Info("Attempting to connect to database", slog.String("driver", driver), slog.String("dbURL_used", cfg.MaskedDatabaseURL()))

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := store.Connect(connectCtx, driver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(connectCtx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}
	backend, err := store.NewSQLBackend(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("SQL storage initialized", slog.String("driver", driver))
	return backend, nil
}

// healthcheck опрашивает gRPC health запущенного сервера; используется
// как HEALTHCHECK контейнера: `filmorate healthcheck`.
func healthcheck(cfg *config.Config, logger *slog.Logger) int {
	client, err := grpcServer.NewHealthClient("localhost:"+cfg.GRPCPort, logger)
	if err != nil {
		return 1
	}
	defer client.Close()

	st, err := client.Check(context.Background())
	if err != nil {
		return 1
	}
	if st != healthpb.HealthCheckResponse_SERVING {
		logger.Error("Filmorate is not serving", slog.String("status", st.String()))
		return 1
	}
	return 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck(cfg, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Filmorate failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		logger.Info("Closing storage...")
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage", slog.String("error", err.Error()))
		}
	}()

	validator := validation.New(backend.Genres(), backend.Mpa())
	filmService := service.NewFilmService(backend.Films(), backend.Mpa(), validator, logger)
	userService := service.NewUserService(backend.Users(), validator, logger)
	genreService := service.NewGenreService(backend.Genres())
	mpaService := service.NewMpaService(backend.Mpa())

	// --- Настройка и запуск gRPC сервера ---
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Error("Failed to listen for gRPC", slog.String("port", cfg.GRPCPort), slog.String("error", err.Error()))
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, grpcServer.NewHealthServer(backend, logger))
	reflection.Register(grpcSrv)

	go func() {
		logger.Info("Filmorate gRPC server starting", slog.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("Filmorate gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()

	// --- Настройка и запуск HTTP сервера ---
	limiter := httpAPI.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	go limiter.Cleanup(ctx, time.Minute)

	handler := httpAPI.NewHandler(filmService, userService, genreService, mpaService, backend, logger)
	httpRouter := httpAPI.NewRouter(handler, logger, httpAPI.RouterOptions{
		Limiter: limiter,
		Metrics: httpAPI.NewMetrics(),
	})
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Filmorate HTTP server starting", slog.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Filmorate HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	// Ожидание сигнала для graceful shutdown
	<-ctx.Done()
	logger.Info("Filmorate shutting down...")

	ctxHttp, cancelHttp := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelHttp()
	if err := httpSrv.Shutdown(ctxHttp); err != nil {
		logger.Error("Filmorate HTTP Server Shutdown Failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Filmorate HTTP Server gracefully stopped.")
	}

	grpcSrv.GracefulStop()
	logger.Info("Filmorate gRPC server gracefully stopped.")
}
