package grpcserver

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes grpc.health.v1.Health for orchestrators that probe
// over gRPC. The overall status ("") tracks the HTTP API.
type HealthServer struct {
	addr   string
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

func NewHealthServer(addr string, logger *zap.Logger) *HealthServer {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{addr: addr, server: s, health: hs, logger: logger}
}

// Start listens and serves in the background.
func (s *HealthServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(lis); err != nil {
			s.logger.Error("gRPC health server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("gRPC health server listening", zap.String("address", s.addr))
	return nil
}

func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}

func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
