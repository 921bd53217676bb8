package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
)

var (
	// ErrAllocationFailed is returned when no business id could be issued.
	ErrAllocationFailed = errors.New("business id allocation failed")
	// ErrCounterExhausted is returned when the next value does not fit the configured width.
	ErrCounterExhausted = fmt.Errorf("%w: counter exhausted", ErrAllocationFailed)
)

// AllocatorConfig controls scope derivation and id formatting.
type AllocatorConfig struct {
	EpochStartMonth time.Month
	EpochStartDay   int
	Location        *time.Location
	Width           int
	MaxRetries      int
	// Backoff is the upper bound of the jittered pause between attempts.
	Backoff  time.Duration
	Defaults model.OrgConfig
}

// Allocation is an issued business id together with the scope it was drawn from.
type Allocation struct {
	BusinessID model.BusinessID
	Scope      string
}

// Allocator issues sequential, never reused business ids per academic year.
type Allocator struct {
	counterStore   model.CounterStore
	orgConfigStore model.OrgConfigStore
	cfg            AllocatorConfig
	metrics        *metrics.Metrics
	logger         *logger.Logger
	now            func() time.Time
}

// NewAllocator creates an Allocator.
func NewAllocator(
	counterStore model.CounterStore,
	orgConfigStore model.OrgConfigStore,
	cfg AllocatorConfig,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Allocator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Allocator{
		counterStore:   counterStore,
		orgConfigStore: orgConfigStore,
		cfg:            cfg,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// ScopeKey returns the academic year containing t, e.g. "2024-2025".
// Dates before the epoch start belong to the year that began the previous calendar year.
func (a *Allocator) ScopeKey(t time.Time) string {
	local := t.In(a.cfg.Location)
	year := local.Year()
	start := time.Date(year, a.cfg.EpochStartMonth, a.cfg.EpochStartDay, 0, 0, 0, 0, a.cfg.Location)
	if local.Before(start) {
		return fmt.Sprintf("%d-%d", year-1, year)
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}

// Allocate issues the next business id of the current academic year.
func (a *Allocator) Allocate(ctx context.Context) (Allocation, error) {
	codes, err := a.orgCodes(ctx)
	if err != nil {
		return Allocation{}, err
	}

	scope := a.ScopeKey(a.now())
	businessID, err := a.AllocateIn(ctx, scope, codes)
	if err != nil {
		return Allocation{}, err
	}

	return Allocation{BusinessID: businessID, Scope: scope}, nil
}

// AllocateIn increments the counter of scope and formats the new value with codes.
// A value that was swapped in is never handed out again, even if the caller fails later.
func (a *Allocator) AllocateIn(ctx context.Context, scope string, codes model.OrgConfig) (model.BusinessID, error) {
	key := model.CounterKey{Namespace: model.AdmissionCounterNamespace, Scope: scope}
	limit := maxCounterValue(a.cfg.Width)

	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		current, err := a.counterStore.Load(ctx, key)
		if err != nil {
			return "", fmt.Errorf("%w: failed to load counter %s: %w", ErrAllocationFailed, key.Path(), err)
		}

		next := current + 1
		if next > limit {
			a.logger.Error("Allocator: counter exhausted",
				"counter", key.Path(),
				"value", current,
				"width", a.cfg.Width)
			return "", fmt.Errorf("%w: %s reached %d", ErrCounterExhausted, key.Path(), current)
		}

		swapped, err := a.counterStore.CompareAndSwap(ctx, key, current, next)
		if err != nil {
			return "", fmt.Errorf("%w: failed to swap counter %s: %w", ErrAllocationFailed, key.Path(), err)
		}
		if swapped {
			a.metrics.AllocationAttempts.Observe(float64(attempt))
			return a.format(codes, next), nil
		}

		a.logger.Debug("Allocator: counter contention, retrying",
			"counter", key.Path(),
			"attempt", attempt)

		if err := a.pause(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", ErrAllocationFailed, err)
		}
	}

	a.metrics.AllocationAttempts.Observe(float64(a.cfg.MaxRetries))
	a.logger.Error("Allocator: retry budget exhausted",
		"counter", key.Path(),
		"max_retries", a.cfg.MaxRetries)
	return "", fmt.Errorf("%w: %s still contended after %d attempts", ErrAllocationFailed, key.Path(), a.cfg.MaxRetries)
}

func (a *Allocator) format(codes model.OrgConfig, n int64) model.BusinessID {
	return model.BusinessID(fmt.Sprintf("%s-%s-%s-S%0*d",
		codes.IDPrefix, codes.LocationCode, codes.BranchCode, a.cfg.Width, n))
}

func (a *Allocator) orgCodes(ctx context.Context) (model.OrgConfig, error) {
	cfg, err := a.orgConfigStore.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return a.cfg.Defaults, nil
	}
	if err != nil {
		return model.OrgConfig{}, fmt.Errorf("%w: failed to read org config: %w", ErrAllocationFailed, err)
	}
	return cfg.WithDefaults(a.cfg.Defaults), nil
}

func (a *Allocator) pause(ctx context.Context) error {
	if a.cfg.Backoff <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(rand.N(a.cfg.Backoff) + time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func maxCounterValue(width int) int64 {
	limit := int64(1)
	for range width {
		limit *= 10
	}
	return limit - 1
}
