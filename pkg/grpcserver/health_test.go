package grpcserver

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServer_Registered(t *testing.T) {
	s := NewHealthServer("127.0.0.1:0", zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer s.Stop()

	if _, ok := s.server.GetServiceInfo()["grpc.health.v1.Health"]; !ok {
		t.Errorf("health service not registered, got %v", s.server.GetServiceInfo())
	}
}

func TestHealthServer_Status(t *testing.T) {
	s := NewHealthServer("127.0.0.1:0", zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			t.Fatalf("Check() unexpected error = %v", err)
		}
		return resp.Status
	}
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("initial status = %v, want NOT_SERVING", got)
	}
	s.SetServing(true)
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", got)
	}
}
