// internal/grpc/health_client.go
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthClient опрашивает grpc.health.v1.Health работающего filmorate.
type HealthClient struct {
	client healthpb.HealthClient
	conn   *grpc.ClientConn
	logger *slog.Logger
}

// NewHealthClient создает клиента для addr (например, "localhost:9090").
// Соединение устанавливается лениво, при первом вызове.
func NewHealthClient(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		logger.Error("Failed to create gRPC health client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create health client for %s: %w", addr, err)
	}
	return &HealthClient{
		client: healthpb.NewHealthClient(conn),
		conn:   conn,
		logger: logger,
	}, nil
}

// Check возвращает статус сервиса. Ошибка означает, что сервер не ответил.
func (c *HealthClient) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := c.client.Check(callCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		if st, ok := status.FromError(err); ok {
			c.logger.ErrorContext(ctx, "Health Check gRPC call failed with status",
				slog.String("code", st.Code().String()),
				slog.String("message", st.Message()))
		}
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("grpc health check failed: %w", err)
	}
	c.logger.DebugContext(ctx, "Health Check gRPC call successful", slog.String("status", res.GetStatus().String()))
	return res.GetStatus(), nil
}

// Close закрывает gRPC соединение.
func (c *HealthClient) Close() error {
	return c.conn.Close()
}
