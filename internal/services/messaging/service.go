package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"kepler-responder-go/internal/config"
)

// Service wraps the NATS connection used for alert intake and recommendation publishing
type Service struct {
	conn   *nats.Conn
	cfg    *config.Config
	closed chan struct{}
}

func NewService(cfg *config.Config) (*Service, error) {
	closed := make(chan struct{})
	opts := []nats.Option{
		nats.Name("kepler-responder-" + cfg.WorkerID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NatsURL, err)
	}

	log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")

	return &Service{
		conn:   conn,
		cfg:    cfg,
		closed: closed,
	}, nil
}

// Publish marshals data as JSON and publishes it on subject
func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", subject, err)
	}

	return s.conn.Publish(subject, payload)
}

// QueueSubscribe delivers each message on subject to exactly one member of queue
func (s *Service) QueueSubscribe(subject, queue string, handler func([]byte)) (*nats.Subscription, error) {
	return s.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Shutdown drains subscriptions and pending publishes, closing immediately if
// the drain does not finish within NatsDrainTimeout or ctx is done
func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}

	if err := s.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		s.conn.Close()
		return nil
	}

	select {
	case <-s.closed:
		log.Info().Msg("NATS connection drained")
	case <-time.After(s.cfg.NatsDrainTimeout):
		log.Warn().Dur("timeout", s.cfg.NatsDrainTimeout).Msg("NATS drain timed out, closing")
		s.conn.Close()
	case <-ctx.Done():
		s.conn.Close()
		return ctx.Err()
	}
	return nil
}
