package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/config"
)

type fakeCoupons struct {
	calls int32
	fail  int32
}

func (f *fakeCoupons) ExpireCoupons(ctx context.Context) (int64, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= atomic.LoadInt32(&f.fail) {
		return 0, errors.New("database is locked")
	}
	return 2, nil
}

type fakeCarts struct {
	ttl time.Duration
}

func (f *fakeCarts) PurgeStaleCarts(ctx context.Context, ttl time.Duration) (int64, error) {
	f.ttl = ttl
	return 1, nil
}

func newTestScheduler(cfg config.JobsConfig, coupons *fakeCoupons, carts *fakeCarts) *Scheduler {
	s := New(cfg, coupons, carts, nil)
	s.retryDelay = time.Millisecond
	return s
}

func TestJobsRegistered(t *testing.T) {
	s := newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m", CartSweep: "@hourly"}, &fakeCoupons{}, &fakeCarts{})
	assert.Equal(t, []string{JobCartSweep, JobCouponSweep}, s.Jobs())

	s = newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m"}, &fakeCoupons{}, &fakeCarts{})
	assert.Equal(t, []string{JobCouponSweep}, s.Jobs())
}

func TestRunNow(t *testing.T) {
	coupons := &fakeCoupons{}
	carts := &fakeCarts{}
	s := newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m", CartSweep: "@hourly", CartTTL: 72 * time.Hour}, coupons, carts)

	require.NoError(t, s.RunNow(context.Background(), JobCouponSweep))
	assert.Equal(t, int32(1), atomic.LoadInt32(&coupons.calls))

	require.NoError(t, s.RunNow(context.Background(), JobCartSweep))
	assert.Equal(t, 72*time.Hour, carts.ttl)

	assert.Error(t, s.RunNow(context.Background(), "reindex"))
}

func TestRetry(t *testing.T) {
	coupons := &fakeCoupons{fail: 2}
	s := newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m"}, coupons, &fakeCarts{})

	require.NoError(t, s.RunNow(context.Background(), JobCouponSweep))
	assert.Equal(t, int32(3), atomic.LoadInt32(&coupons.calls))

	coupons = &fakeCoupons{fail: 10}
	s = newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m"}, coupons, &fakeCarts{})
	err := s.RunNow(context.Background(), JobCouponSweep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(config.JobsConfig{CouponSweep: "@every 10m", CartSweep: "@hourly"}, &fakeCoupons{}, &fakeCarts{})

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := newTestScheduler(config.JobsConfig{CouponSweep: "every now and then"}, &fakeCoupons{}, &fakeCarts{})
	assert.Error(t, s.Start(context.Background()))
}
