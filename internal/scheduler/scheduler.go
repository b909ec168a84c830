package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/innovatun/console/internal/cache"
	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/upstream"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	lockKey    = "console:scheduler:lock"
	jobTimeout = 30 * time.Second
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Holder   *config.ConsoleConfigHolder
	Upstream upstream.Client
	Cache    *cache.SnapshotCache
	Checkout checkoutdomain.Service
	Locker   *Locker `optional:"true"`
}

// Scheduler periodically refreshes the raw snapshots and sweeps unsynced
// checkout rows back to the upstream.
type Scheduler struct {
	log      *zap.Logger
	clock    clock.Clock
	holder   *config.ConsoleConfigHolder
	upstream upstream.Client
	cache    *cache.SnapshotCache
	checkout checkoutdomain.Service
	locker   *Locker
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Holder == nil || p.Upstream == nil || p.Checkout == nil {
		return nil, errors.New("invalid_scheduler_config")
	}
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		clock:    p.Clock,
		holder:   p.Holder,
		upstream: p.Upstream,
		cache:    p.Cache,
		checkout: p.Checkout,
		locker:   p.Locker,
	}, nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.holder.Get().Refresh.Interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		// Pick up hot-reloaded intervals between runs.
		if next := s.holder.Get().Refresh.Interval; next != interval {
			interval = next
			ticker.Reset(interval)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes one refresh+sweep pass. The redis lock keeps replicas
// from running the pass concurrently; losing the race skips the run.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	interval := s.holder.Get().Refresh.Interval
	token, acquired, err := s.locker.TryLock(ctx, lockKey, interval)
	if err != nil {
		return err
	}
	if !acquired {
		s.log.Debug("scheduler lock held elsewhere, skipping run")
		return nil
	}
	defer func() {
		if releaseErr := s.locker.Release(context.WithoutCancel(ctx), lockKey, token); releaseErr != nil {
			s.log.Warn("scheduler lock release failed", zap.Error(releaseErr))
		}
	}()

	var jobErr error
	jobErr = errors.Join(jobErr, s.runJob(ctx, "refresh_snapshots", s.RefreshSnapshotsJob))
	jobErr = errors.Join(jobErr, s.runJob(ctx, "sweep_checkout", s.SweepCheckoutJob))
	return jobErr
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	start := s.clock.Now()
	err := fn(ctx)
	duration := s.clock.Now().Sub(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn("job timed out", zap.String("job", name), zap.Duration("duration", duration))
			return nil
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	s.log.Debug("job finished", zap.String("job", name), zap.Duration("duration", duration))
	return nil
}

// RefreshSnapshotsJob re-fetches the raw collections and replaces the
// cached snapshots. An unreachable upstream leaves the previous snapshots
// in place for the read paths.
func (s *Scheduler) RefreshSnapshotsJob(ctx context.Context) error {
	var jobErr error

	if subs, err := s.upstream.Subscriptions(ctx); err != nil {
		s.log.Warn("subscription snapshot refresh skipped", zap.Error(err))
	} else if err := s.cache.Store(ctx, cache.CollectionSubscriptions, subs); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	if customers, err := s.upstream.Customers(ctx); err != nil {
		s.log.Warn("customer snapshot refresh skipped", zap.Error(err))
	} else if err := s.cache.Store(ctx, cache.CollectionCustomers, customers); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	return jobErr
}

// SweepCheckoutJob re-posts unsynced local checkout rows.
func (s *Scheduler) SweepCheckoutJob(ctx context.Context) error {
	resp, err := s.checkout.Sweep(ctx)
	if err != nil {
		return err
	}
	if resp.Attempted > 0 {
		s.log.Info("checkout sweep finished",
			zap.Int("attempted", resp.Attempted),
			zap.Int("synced", resp.Synced),
			zap.Int64("pruned", resp.Pruned),
		)
	}
	return nil
}
