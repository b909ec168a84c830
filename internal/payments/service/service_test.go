package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/innovatun/console/internal/cache"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/payments/domain"
	"github.com/innovatun/console/internal/records"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upstreamFake struct {
	rows []records.RawRecord
	err  error
}

func (f *upstreamFake) Subscriptions(context.Context) ([]records.RawRecord, error) {
	return f.rows, f.err
}

func (f *upstreamFake) SubscriptionsByEmail(context.Context, string) ([]records.RawRecord, error) {
	return f.rows, f.err
}

func (f *upstreamFake) Customers(context.Context) ([]records.RawRecord, error) {
	return f.rows, f.err
}

func (f *upstreamFake) SessionData(context.Context, string) (records.RawRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *upstreamFake) CreateSubscription(context.Context, map[string]any) error {
	return nil
}

func newNormalizer(t *testing.T) *records.Normalizer {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return records.NewNormalizer(records.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)),
	})
}

func newService(t *testing.T, fake *upstreamFake, snapshots *cache.SnapshotCache) domain.Service {
	t.Helper()
	if snapshots == nil {
		snapshots = cache.NewSnapshotCache(cache.Params{Log: zap.NewNop()})
	}
	return New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)),
		Upstream:   fake,
		Cache:      snapshots,
		Normalizer: newNormalizer(t),
	})
}

func newRedisCache(t *testing.T) *cache.SnapshotCache {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewSnapshotCache(cache.Params{Redis: client, Log: zap.NewNop()})
}

func TestListNormalizesAndSummarizes(t *testing.T) {
	fake := &upstreamFake{rows: []records.RawRecord{
		{"email": "a@example.com", "name": "Alice", "plan": "Pro", "status": "active", "amount": "$4,500 / month"},
		{"email": "b@example.com", "name": "Bob", "plan": "Starter", "status": "pending", "amount": "50"},
	}}
	svc := newService(t, fake, nil)

	resp, err := svc.List(context.Background(), domain.ListPaymentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, records.SourceUpstream, resp.Source)
	require.Len(t, resp.Payments, 2)
	assert.Equal(t, records.StatusPaid, resp.Payments[0].Status)
	assert.Equal(t, 4500.0, resp.Payments[0].Amount)
	assert.Equal(t, 4500.0, resp.Stats.TotalRevenue)
	assert.Equal(t, 1, resp.Stats.StatusCounts["pending"])
}

func TestListAppliesFilters(t *testing.T) {
	fake := &upstreamFake{rows: []records.RawRecord{
		{"email": "a@example.com", "status": "paid", "amount": "100"},
		{"email": "b@example.com", "status": "failed", "amount": "50"},
	}}
	svc := newService(t, fake, nil)

	resp, err := svc.List(context.Background(), domain.ListPaymentsRequest{Status: "failed"})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "b@example.com", resp.Payments[0].CustomerEmail)
	assert.Zero(t, resp.Stats.TotalRevenue)
}

func TestListFallsBackToSnapshot(t *testing.T) {
	snapshots := newRedisCache(t)
	ctx := context.Background()

	ok := &upstreamFake{rows: []records.RawRecord{{"email": "a@example.com", "status": "paid", "amount": "100"}}}
	svc := newService(t, ok, snapshots)
	_, err := svc.List(ctx, domain.ListPaymentsRequest{})
	require.NoError(t, err)

	down := &upstreamFake{err: errors.New("connection refused")}
	svc = newService(t, down, snapshots)
	resp, err := svc.List(ctx, domain.ListPaymentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, records.SourceCache, resp.Source)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "a@example.com", resp.Payments[0].CustomerEmail)
}

func TestListDegradesToEmpty(t *testing.T) {
	down := &upstreamFake{err: errors.New("connection refused")}
	svc := newService(t, down, nil)

	resp, err := svc.List(context.Background(), domain.ListPaymentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, records.SourceNone, resp.Source)
	assert.Empty(t, resp.Payments)
	assert.Zero(t, resp.Stats.TotalRevenue)
}

func TestExportLineCount(t *testing.T) {
	fake := &upstreamFake{rows: []records.RawRecord{
		{"email": "a@example.com", "status": "paid", "amount": "100"},
		{"email": "b@example.com", "status": "paid", "amount": "50"},
		{"email": "c@example.com", "status": "pending", "amount": "25"},
	}}
	svc := newService(t, fake, nil)

	resp, err := svc.Export(context.Background(), domain.ListPaymentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "payments-2024-06-15.csv", resp.Filename)
	assert.Len(t, strings.Split(string(resp.Content), "\n"), 4)
}
