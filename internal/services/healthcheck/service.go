package healthcheck

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service names reported by the health server. The empty name is the overall status.
const (
	ServiceOverall   = ""
	ServiceMessaging = "kepler.responder.Messaging"
)

// Service serves grpc.health.v1.Health for orchestrator probes
type Service struct {
	server *grpc.Server
	health *health.Server
}

func NewService() *Service {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &Service{
		server: server,
		health: hs,
	}
}

// SetServing updates the status reported for a service name
func (s *Service) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Watch polls check every interval and mirrors its result into service's status
// until ctx is done
func (s *Service) Watch(ctx context.Context, service string, interval time.Duration, check func() bool) {
	last := check()
	s.SetServing(service, last)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if now := check(); now != last {
					log.Info().Str("service", service).Bool("serving", now).Msg("Health status changed")
					s.SetServing(service, now)
					last = now
				}
			}
		}
	}()
}

// Serve blocks serving on lis
func (s *Service) Serve(lis net.Listener) error {
	log.Info().Str("addr", lis.Addr().String()).Msg("gRPC health server listening")
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the given TCP port and serves
func (s *Service) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on grpc port %d: %w", port, err)
	}
	return s.Serve(lis)
}

// Shutdown marks everything NOT_SERVING and stops gracefully, forcing a stop if ctx expires
func (s *Service) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
