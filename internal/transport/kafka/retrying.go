package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
)

type publisher interface {
	Publish(ctx context.Context, ev domain.ShipmentEvent) error
}

type counter interface {
	Inc()
}

// RetryConfig describes how RetryingPublisher retries.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingPublisher retries retryable broker failures with exponential backoff.
type RetryingPublisher struct {
	next    publisher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(context.Context, time.Duration) bool
}

// NewRetryingPublisher wraps next. It returns nil when next is nil.
func NewRetryingPublisher(next publisher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingPublisher {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingPublisher{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Publish sends ev, retrying while the error is retryable and attempts remain.
func (p *RetryingPublisher) Publish(ctx context.Context, ev domain.ShipmentEvent) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.Publish(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("event publish retry",
			logx.String("event", string(ev.Type)),
			logx.Int64("shipment_id", ev.ShipmentID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !p.wait(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable reports whether the broker may accept the same message later.
func isRetryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	if errors.Is(err, sarama.ErrOutOfBrokers) || errors.Is(err, sarama.ErrNotConnected) {
		return true
	}

	var kerr sarama.KError
	if !errors.As(err, &kerr) {
		return false
	}
	switch kerr {
	case sarama.ErrLeaderNotAvailable,
		sarama.ErrNotLeaderForPartition,
		sarama.ErrRequestTimedOut,
		sarama.ErrNotEnoughReplicas,
		sarama.ErrNotEnoughReplicasAfterAppend,
		sarama.ErrNetworkException:
		return true
	default:
		return false
	}
}

// backoff computes the delay before the next attempt.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
