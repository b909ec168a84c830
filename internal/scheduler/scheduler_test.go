package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/innovatun/console/internal/cache"
	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/records"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upstreamFake struct {
	subs      []records.RawRecord
	customers []records.RawRecord
	err       error
}

func (f *upstreamFake) Subscriptions(context.Context) ([]records.RawRecord, error) {
	return f.subs, f.err
}

func (f *upstreamFake) SubscriptionsByEmail(context.Context, string) ([]records.RawRecord, error) {
	return f.subs, f.err
}

func (f *upstreamFake) Customers(context.Context) ([]records.RawRecord, error) {
	return f.customers, f.err
}

func (f *upstreamFake) SessionData(context.Context, string) (records.RawRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *upstreamFake) CreateSubscription(context.Context, map[string]any) error {
	return f.err
}

type checkoutFake struct {
	sweeps int
	resp   checkoutdomain.SweepResponse
}

func (f *checkoutFake) Success(context.Context, checkoutdomain.SuccessRequest) (checkoutdomain.SuccessResponse, error) {
	return checkoutdomain.SuccessResponse{}, nil
}

func (f *checkoutFake) Sweep(context.Context) (checkoutdomain.SweepResponse, error) {
	f.sweeps++
	return f.resp, nil
}

func (f *checkoutFake) ListByEmail(context.Context, string) ([]records.SubscriptionRecord, error) {
	return nil, nil
}

func (f *checkoutFake) ListLocal(context.Context, checkoutdomain.ListLocalRequest) (checkoutdomain.ListLocalResponse, error) {
	return checkoutdomain.ListLocalResponse{}, nil
}

func newTestScheduler(t *testing.T, fake *upstreamFake, checkout *checkoutFake, client *redis.Client) (*Scheduler, *cache.SnapshotCache) {
	t.Helper()

	holder, err := config.NewConsoleConfigHolder()
	require.NoError(t, err)

	snapshots := cache.NewSnapshotCache(cache.Params{Redis: client, Log: zap.NewNop()})

	sched, err := New(Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)),
		Holder:   holder,
		Upstream: fake,
		Cache:    snapshots,
		Checkout: checkout,
		Locker:   NewLocker(client),
	})
	require.NoError(t, err)
	return sched, snapshots
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRunOnceRefreshesAndSweeps(t *testing.T) {
	client := newRedisClient(t)
	fake := &upstreamFake{
		subs:      []records.RawRecord{{"email": "a@example.com"}},
		customers: []records.RawRecord{{"email": "b@example.com"}},
	}
	checkout := &checkoutFake{resp: checkoutdomain.SweepResponse{Attempted: 1, Synced: 1, Pruned: 1}}
	sched, snapshots := newTestScheduler(t, fake, checkout, client)

	require.NoError(t, sched.RunOnce(context.Background()))

	assert.Equal(t, 1, checkout.sweeps)
	subs, ok := snapshots.Load(context.Background(), cache.CollectionSubscriptions)
	require.True(t, ok)
	assert.Len(t, subs, 1)
	customers, ok := snapshots.Load(context.Background(), cache.CollectionCustomers)
	require.True(t, ok)
	assert.Len(t, customers, 1)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	client := newRedisClient(t)
	checkout := &checkoutFake{}
	sched, _ := newTestScheduler(t, &upstreamFake{}, checkout, client)

	require.NoError(t, client.SetNX(context.Background(), lockKey, "other-replica", time.Minute).Err())

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Zero(t, checkout.sweeps)
}

func TestRunOnceWithoutRedisRunsUnlocked(t *testing.T) {
	checkout := &checkoutFake{}
	sched, _ := newTestScheduler(t, &upstreamFake{}, checkout, nil)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, checkout.sweeps)
}

func TestRefreshKeepsSnapshotsWhenUpstreamDown(t *testing.T) {
	client := newRedisClient(t)
	fake := &upstreamFake{subs: []records.RawRecord{{"email": "a@example.com"}}}
	sched, snapshots := newTestScheduler(t, fake, &checkoutFake{}, client)

	require.NoError(t, sched.RunOnce(context.Background()))

	fake.err = errors.New("connection refused")
	require.NoError(t, sched.RunOnce(context.Background()))

	subs, ok := snapshots.Load(context.Background(), cache.CollectionSubscriptions)
	require.True(t, ok)
	assert.Len(t, subs, 1)
}
