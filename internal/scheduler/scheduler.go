package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/logger"
)

// Retry configuration constants
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second
	DefaultJobTimeout = 5 * time.Minute
)

// Job names
const (
	JobCouponSweep = "coupon-sweep"
	JobCartSweep   = "cart-sweep"
)

// CouponExpirer deactivates coupons whose expiry has passed
type CouponExpirer interface {
	ExpireCoupons(ctx context.Context) (int64, error)
}

// CartPurger deletes carts untouched for longer than a ttl
type CartPurger interface {
	PurgeStaleCarts(ctx context.Context, ttl time.Duration) (int64, error)
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context) (int64, error)
}

// Scheduler runs the shop's maintenance jobs on cron schedules
type Scheduler struct {
	jobs       map[string]job
	log        *logger.Logger
	cron       *cron.Cron
	running    bool
	mu         sync.RWMutex
	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler for the coupon and cart sweeps
func New(cfg config.JobsConfig, coupons CouponExpirer, carts CartPurger, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("scheduler")

	s := &Scheduler{
		jobs:       make(map[string]job),
		log:        log,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log}), cron.Recover(cronLogger{log}))),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}

	if cfg.CouponSweep != "" {
		s.jobs[JobCouponSweep] = job{
			name: JobCouponSweep,
			spec: cfg.CouponSweep,
			run:  coupons.ExpireCoupons,
		}
	}
	if cfg.CartSweep != "" {
		ttl := cfg.CartTTL
		s.jobs[JobCartSweep] = job{
			name: JobCartSweep,
			spec: cfg.CartSweep,
			run: func(ctx context.Context) (int64, error) {
				return carts.PurgeStaleCarts(ctx, ttl)
			},
		}
	}
	return s
}

// Jobs returns the names of the registered jobs, sorted
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start registers every job with cron and starts it
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	for _, name := range s.Jobs() {
		j := s.jobs[name]
		if _, err := s.cron.AddFunc(j.spec, func() {
			if err := s.execute(ctx, j); err != nil {
				s.log.Error("Job %s failed: %v", j.name, err)
			}
		}); err != nil {
			return fmt.Errorf("failed to add cron job %s (%q): %w", j.name, j.spec, err)
		}
		s.log.Info("Registered job %s with cron expression: %s", j.name, j.spec)
	}

	s.cron.Start()
	s.running = true

	s.log.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false

	s.log.Info("Scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j job) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultJobTimeout)
	defer cancel()

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		n, err := j.run(ctx)
		if err == nil {
			if attempt > 1 {
				s.log.Info("Job %s succeeded on attempt %d", j.name, attempt)
			}
			s.log.Info("Job %s affected %d rows in %v", j.name, n, time.Since(start))
			return nil
		}

		lastErr = err
		s.log.Warning("Attempt %d/%d of job %s failed: %v", attempt, s.maxRetries, j.name, err)

		// Don't wait after the last attempt
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	return fmt.Errorf("failed after %d attempts, last error: %w", s.maxRetries, lastErr)
}

// cronLogger adapts our logger to cron's key/value logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
