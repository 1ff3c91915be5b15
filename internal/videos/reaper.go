package videos

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/storage"
)

const (
	reaperMaxAttempts   = 3
	reaperBaseBackoff   = 100 * time.Millisecond
	reaperMaxBackoff    = 3 * time.Second
	reaperDeleteTimeout = 30 * time.Second
)

// Orphan is a remote asset no record references any more.
type Orphan struct {
	PublicID string
	Kind     storage.Kind
}

// OrphanFromURL identifies the stored asset behind url.
func OrphanFromURL(url string, kind storage.Kind) Orphan {
	return Orphan{PublicID: storage.PublicID(url), Kind: kind}
}

// ReaperConfig controls the concurrency characteristics of the reaper.
type ReaperConfig struct {
	QueueSize int
	Workers   int
}

// Reaper deletes orphaned remote assets in the background, retrying each a
// few times with exponential backoff.
type Reaper struct {
	store  storage.MediaStore
	logger *slog.Logger

	jobs    chan Orphan
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	once    sync.Once
	backoff func(attempt int) time.Duration
}

// NewReaper starts the worker pool.
func NewReaper(store storage.MediaStore, cfg ReaperConfig, logger *slog.Logger) *Reaper {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &Reaper{
		store:   store,
		logger:  logger,
		jobs:    make(chan Orphan, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		backoff: reaperBackoff,
	}

	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.worker()
	}

	return r
}

// Enqueue schedules deletion of the orphan without blocking the caller.
func (r *Reaper) Enqueue(orphan Orphan) error {
	if orphan.PublicID == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errReaperClosed
	}

	select {
	case r.jobs <- orphan:
		return nil
	default:
		metrics.ReaperJobs.WithLabelValues("dropped").Inc()
		r.logger.Error("asset reaper queue full, orphan dropped", "publicId", orphan.PublicID, "kind", orphan.Kind)
		return ErrReaperBusy
	}
}

// Shutdown stops accepting orphans and waits for queued ones to be processed.
// When ctx expires first, in-flight retries are abandoned.
func (r *Reaper) Shutdown(ctx context.Context) error {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.jobs)
		r.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	case <-done:
		r.cancel()
		return nil
	}
}

func (r *Reaper) worker() {
	defer r.wg.Done()

	for orphan := range r.jobs {
		r.reap(orphan)
	}
}

func (r *Reaper) reap(orphan Orphan) {
	var err error
	for attempt := 0; attempt < reaperMaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-r.ctx.Done():
				timer.Stop()
				metrics.ReaperJobs.WithLabelValues("abandoned").Inc()
				return
			case <-timer.C:
			}
		}

		ctx, cancel := context.WithTimeout(r.ctx, reaperDeleteTimeout)
		err = r.store.Delete(ctx, orphan.PublicID, orphan.Kind)
		cancel()
		if err == nil {
			metrics.ReaperJobs.WithLabelValues("deleted").Inc()
			return
		}
		r.logger.Warn("orphan deletion failed", "publicId", orphan.PublicID, "kind", orphan.Kind, "attempt", attempt+1, "error", err)
	}

	metrics.ReaperJobs.WithLabelValues("failed").Inc()
	r.logger.Error("orphan deletion gave up", "publicId", orphan.PublicID, "kind", orphan.Kind, "error", err)
}

func reaperBackoff(attempt int) time.Duration {
	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * reaperBaseBackoff
	if backoff > reaperMaxBackoff {
		backoff = reaperMaxBackoff
	}
	return backoff
}
