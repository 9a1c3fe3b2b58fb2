// internal/grpc/health.go
package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName имя сервиса для grpc.health.v1.Health/Check.
const ServiceName = "filmorate.Filmorate"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer реализует grpc.health.v1.Health: сервис считается рабочим,
// пока хранилище отвечает на Ping.
type HealthServer struct {
	healthpb.UnimplementedHealthServer // Обязательно для прямой совместимости
	backend                            Pinger
	logger                             *slog.Logger
}

// NewHealthServer создает новый экземпляр HealthServer.
func NewHealthServer(backend Pinger, logger *slog.Logger) *HealthServer {
	return &HealthServer{backend: backend, logger: logger}
}

// Check реализует gRPC метод Check. Пустое имя сервиса означает весь сервер.
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	s.logger.DebugContext(ctx, "gRPC health Check called", slog.String("service", req.GetService()))

	if svc := req.GetService(); svc != "" && svc != ServiceName {
		s.logger.WarnContext(ctx, "gRPC health Check for unknown service", slog.String("service", svc))
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	if err := s.backend.Ping(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Storage ping failed during health check", slog.String("error", err.Error()))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
