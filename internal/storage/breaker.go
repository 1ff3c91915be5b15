package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/metrics"
)

// Breaker sheds media calls while the backing store keeps failing.
type Breaker struct {
	next MediaStore
	cb   *gobreaker.CircuitBreaker[Asset]
}

// NewBreaker opens after maxFailures consecutive failures and probes again after timeout.
func NewBreaker(next MediaStore, maxFailures uint32, timeout time.Duration) *Breaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	metrics.MediaBreakerState.Set(stateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[Asset](gobreaker.Settings{
		Name:        "media-store",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("media breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.MediaBreakerState.Set(stateValue(to))
		},
	})

	return &Breaker{next: next, cb: cb}
}

// Upload forwards to the wrapped store unless the breaker is open.
func (b *Breaker) Upload(ctx context.Context, kind Kind, localPath string) (Asset, error) {
	asset, err := b.cb.Execute(func() (Asset, error) {
		return b.next.Upload(ctx, kind, localPath)
	})
	return asset, b.observe(ctx, "upload", kind, err)
}

// Delete forwards to the wrapped store unless the breaker is open.
func (b *Breaker) Delete(ctx context.Context, publicID string, kind Kind) error {
	_, err := b.cb.Execute(func() (Asset, error) {
		return Asset{}, b.next.Delete(ctx, publicID, kind)
	})
	return b.observe(ctx, "delete", kind, err)
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) observe(ctx context.Context, op string, kind Kind, err error) error {
	switch {
	case err == nil:
		metrics.MediaOperations.WithLabelValues(op, string(kind), "success").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.MediaOperations.WithLabelValues(op, string(kind), "rejected").Inc()
		logging.FromContext(ctx).Warn("media call rejected", "op", op, "kind", kind, "error", err)
		return errors.Join(ErrBreakerOpen, err)
	default:
		metrics.MediaOperations.WithLabelValues(op, string(kind), "failure").Inc()
		return err
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ MediaStore = (*Breaker)(nil)
