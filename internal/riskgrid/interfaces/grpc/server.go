package grpc

import (
	"context"
	"net"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中登记的服务名
const ServiceName = "riskgrid.RiskGridService"

// Server gRPC 服务，只暴露健康检查与反射
type Server struct {
	srv    *grpc.Server
	health *health.Server
}

// NewServer 创建 gRPC 服务并注册健康检查
func NewServer(opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			middleware.GRPCRecoveryInterceptor(),
			middleware.GRPCLoggingInterceptor(),
		),
	}, opts...)

	s := &Server{
		srv:    grpc.NewServer(opts...),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// SetDataset 按数据集是否可查询更新服务状态
func (s *Server) SetDataset(ds *domain.Dataset) {
	st := healthpb.HealthCheckResponse_SERVING
	if ds == nil || ds.Empty() {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Serve 阻塞处理连接，直到 Stop 被调用
func (s *Server) Serve(lis net.Listener) error {
	logger.Info(context.Background(), "gRPC server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

// GracefulStop 将所有服务标记为 NOT_SERVING 后优雅关闭
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
