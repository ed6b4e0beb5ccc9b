package grpc

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CatalogService is the health service name reporting whether the
// catalog mirror has been loaded.
const CatalogService = "cropadvisor.Catalog"

// Server exposes the standard gRPC health service. The catalog service
// reports NOT_SERVING until the first seed or sync succeeds.
type Server struct {
	health     *health.Server
	grpcServer *grpc.Server
}

func NewServer() *Server {
	h := health.NewServer()
	h.SetServingStatus(CatalogService, healthpb.HealthCheckResponse_NOT_SERVING)

	s := &Server{
		health:     h,
		grpcServer: grpc.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpcServer, h)
	return s
}

func (s *Server) SetCatalogServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(CatalogService, status)
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	slog.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
