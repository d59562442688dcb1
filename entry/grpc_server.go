package entry

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer returns a gRPC server that logs every unary call, with the standard
// health service registered and reporting SERVING
func NewGRPCServer(logger *slog.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.UnaryInterceptor(GRPCServerLogging(logger)))
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	return s, h
}

// RunGRPCServer blocks while a gRPC server runs, until ctx is done. Before the server
// stops, h is shut down so that health checks report NOT_SERVING while in-flight calls
// drain.
func RunGRPCServer(ctx context.Context, logger *slog.Logger, s *grpc.Server, h *health.Server, bindAddr string, listenPort int) error {
	addr := fmt.Sprintf("%s:%d", bindAddr, listenPort)
	listenConfig := net.ListenConfig{}
	lis, err := listenConfig.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveGRPC(ctx, logger, s, h, lis)
}

func serveGRPC(ctx context.Context, logger *slog.Logger, s *grpc.Server, h *health.Server, lis net.Listener) error {
	logger.Info("Now listening for gRPC", "addr", lis.Addr().String())

	var wg errgroup.Group
	wg.Go(func() error { return s.Serve(lis) })

	<-ctx.Done()
	cancelErr := context.Cause(ctx)
	if cancelErr != nil && cancelErr != ctx.Err() {
		logger.Error("Closing gRPC server due to application error", "error", cancelErr)
	} else {
		logger.Info("Application is shutting down cleanly; closing gRPC server")
	}
	h.Shutdown()
	s.GracefulStop()

	if err := wg.Wait(); err != nil {
		return fmt.Errorf("error running gRPC server: %w", err)
	}
	logger.Info("gRPC server closed")
	return nil
}
