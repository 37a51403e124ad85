package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama"

	"shipment-tracker/internal/domain"
	testlog "shipment-tracker/internal/testutil"
)

type fakePublisher struct {
	fn func(context.Context, domain.ShipmentEvent) error
}

func (f *fakePublisher) Publish(ctx context.Context, ev domain.ShipmentEvent) error {
	return f.fn(ctx, ev)
}

type counterStub struct{ n int64 }

func (c *counterStub) Inc() { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 {
	return atomic.LoadInt64(&c.n)
}

var testEvent = domain.ShipmentEvent{Type: domain.EventStatusChanged, ShipmentID: 42}

func TestRetryingPublisher_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	var calls int32
	next := &fakePublisher{
		fn: func(context.Context, domain.ShipmentEvent) error {
			switch atomic.AddInt32(&calls, 1) {
			case 1:
				return sarama.ErrOutOfBrokers
			case 2:
				return fmt.Errorf("send: %w", sarama.ErrLeaderNotAvailable)
			default:
				return nil
			}
		},
	}
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	if p == nil {
		t.Fatalf("expected non-nil publisher")
	}

	if err := p.Publish(context.Background(), testEvent); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if ctr.Count() != 2 {
		t.Fatalf("expected 2 retries, got %d", ctr.Count())
	}
	if !rec.Has("event publish retry") {
		t.Fatalf("expected retry log")
	}
}

func TestRetryingPublisher_NoRetryOnNonRetryable(t *testing.T) {
	t.Parallel()

	for name, failure := range map[string]error{
		"plain":     errors.New("message too large"),
		"permanent": Permanent(errors.New("encode")),
		"kerror":    sarama.ErrMessageSizeTooLarge,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var calls int32
			next := &fakePublisher{fn: func(context.Context, domain.ShipmentEvent) error {
				atomic.AddInt32(&calls, 1)
				return failure
			}}
			ctr := &counterStub{}
			p := NewRetryingPublisher(next, nil, ctr, RetryConfig{MaxAttempts: 5})

			err := p.Publish(context.Background(), testEvent)
			if !errors.Is(err, failure) {
				t.Fatalf("expected %v, got %v", failure, err)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Fatalf("expected 1 call, got %d", calls)
			}
			if ctr.Count() != 0 {
				t.Fatalf("expected no retries, got %d", ctr.Count())
			}
		})
	}
}

func TestRetryingPublisher_StopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls int32
	next := &fakePublisher{fn: func(context.Context, domain.ShipmentEvent) error {
		atomic.AddInt32(&calls, 1)
		return sarama.ErrNotEnoughReplicas
	}}
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, nil, ctr, RetryConfig{MaxAttempts: 3})

	var delays []time.Duration
	p.wait = func(_ context.Context, d time.Duration) bool {
		delays = append(delays, d)
		return true
	}
	p.cfg.BaseDelay = 10 * time.Millisecond
	p.cfg.MaxDelay = 15 * time.Millisecond

	err := p.Publish(context.Background(), testEvent)
	if !errors.Is(err, sarama.ErrNotEnoughReplicas) {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(delays) != 2 || delays[0] != 10*time.Millisecond || delays[1] != 15*time.Millisecond {
		t.Fatalf("unexpected delays: %v", delays)
	}
}

func TestRetryingPublisher_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	next := &fakePublisher{fn: func(context.Context, domain.ShipmentEvent) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return sarama.ErrRequestTimedOut
	}}
	p := NewRetryingPublisher(next, nil, nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour})

	if err := p.Publish(ctx, testEvent); !errors.Is(err, sarama.ErrRequestTimedOut) {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestNewRetryingPublisher_NilNext(t *testing.T) {
	t.Parallel()

	if p := NewRetryingPublisher(nil, nil, nil, RetryConfig{}); p != nil {
		t.Fatalf("expected nil publisher")
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, max time.Duration
		attempt   int
		want      time.Duration
	}{
		{100 * time.Millisecond, time.Second, 1, 100 * time.Millisecond},
		{100 * time.Millisecond, time.Second, 3, 400 * time.Millisecond},
		{100 * time.Millisecond, time.Second, 5, time.Second},
		{0, time.Second, 4, 0},
	}
	for _, c := range cases {
		if got := backoff(c.base, c.max, c.attempt); got != c.want {
			t.Fatalf("backoff(%v, %v, %d) = %v, want %v", c.base, c.max, c.attempt, got, c.want)
		}
	}
}

func TestSleepWithContext(t *testing.T) {
	t.Parallel()

	if !sleepWithContext(context.Background(), 0) {
		t.Fatalf("zero delay must not block")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepWithContext(ctx, time.Hour) {
		t.Fatalf("canceled context must stop the wait")
	}
}
