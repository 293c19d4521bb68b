package manager

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jingkaihe/skillmgr/pkg/categories"
	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// saver persists config snapshots in the background. Snapshots are numbered
// when enqueued; a snapshot older than the last one attempted is skipped, so
// the file always ends up with the newest state.
type saver struct {
	save     func(ctx context.Context, config *categories.Config) error
	attempts uint
	delay    time.Duration

	wg sync.WaitGroup

	mu        sync.Mutex
	seq       uint64
	writeMu   sync.Mutex
	attempted uint64
}

func (s *saver) enqueue(ctx context.Context, snapshot *categories.Config) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.write(ctx, seq, snapshot)
	}()
}

func (s *saver) write(ctx context.Context, seq uint64, snapshot *categories.Config) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.G(ctx).WithField("seq", seq)
	if seq <= s.attempted {
		log.Debug("skipping superseded config snapshot")
		return
	}
	s.attempted = seq

	attempts := s.attempts
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			return telemetry.WithSpan(ctx, "config.save", func(ctx context.Context) error {
				return s.save(ctx, snapshot)
			}, attribute.Int64("config.seq", int64(seq)))
		},
		retry.Attempts(attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).WithField("attempt", n+1).Warn("retrying config save")
		}),
	)
	if err != nil {
		log.WithError(err).Error("failed to save config")
		return
	}
	log.Debug("config saved")
}

// wait blocks until every enqueued snapshot has been handled
func (s *saver) wait() {
	s.wg.Wait()
}
