package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/admissions-server/internal/mocks"
	"github.com/dtroode/admissions-server/internal/model"
	"github.com/dtroode/admissions-server/internal/testutil"
)

func TestAllocator_ScopeKey(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name     string
		location *time.Location
		at       time.Time
		want     string
	}{
		{
			name:     "last day before epoch start",
			location: time.UTC,
			at:       time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
			want:     "2024-2025",
		},
		{
			name:     "epoch start day",
			location: time.UTC,
			at:       time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			want:     "2025-2026",
		},
		{
			name:     "january belongs to previous epoch",
			location: time.UTC,
			at:       time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC),
			want:     "2025-2026",
		},
		{
			name:     "december",
			location: time.UTC,
			at:       time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC),
			want:     "2025-2026",
		},
		{
			name:     "configured time zone is already in april",
			location: kolkata,
			at:       time.Date(2025, time.March, 31, 20, 0, 0, 0, time.UTC),
			want:     "2025-2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultAllocatorConfig()
			cfg.Location = tt.location
			a := NewAllocator(newMemCounterStore(), staticOrgConfig{}, cfg, newTestMetrics(), testutil.MakeNoopLogger())

			assert.Equal(t, tt.want, a.ScopeKey(tt.at))
		})
	}
}

func TestAllocator_Allocate_UsesDefaultsWhenOrgConfigMissing(t *testing.T) {
	counters := newMemCounterStore()
	counters.set("2024-2025", 3)

	a := NewAllocator(counters, staticOrgConfig{err: model.ErrNotFound}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())
	a.now = func() time.Time { return time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC) }

	got, err := a.Allocate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.BusinessID("SCHL-NA-NA-S0004"), got.BusinessID)
	assert.Equal(t, "2024-2025", got.Scope)
	assert.Equal(t, int64(4), counters.get("2024-2025"))
}

func TestAllocator_Allocate_BoundaryDaysUseDifferentCounters(t *testing.T) {
	counters := newMemCounterStore()
	a := NewAllocator(counters, staticOrgConfig{err: model.ErrNotFound}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	a.now = func() time.Time { return time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC) }
	before, err := a.Allocate(context.Background())
	require.NoError(t, err)

	a.now = func() time.Time { return time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC) }
	after, err := a.Allocate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-2025", before.Scope)
	assert.Equal(t, "2025-2026", after.Scope)
	assert.Equal(t, model.BusinessID("SCHL-NA-NA-S0001"), before.BusinessID)
	assert.Equal(t, model.BusinessID("SCHL-NA-NA-S0001"), after.BusinessID)
}

func TestAllocator_Allocate_OrgCodes(t *testing.T) {
	orgConfig := staticOrgConfig{cfg: model.OrgConfig{IDPrefix: "PSA", LocationCode: "BLR"}}
	a := NewAllocator(newMemCounterStore(), orgConfig, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	got, err := a.Allocate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.BusinessID("PSA-BLR-NA-S0001"), got.BusinessID)
}

func TestAllocator_Allocate_OrgConfigError(t *testing.T) {
	a := NewAllocator(newMemCounterStore(), staticOrgConfig{err: errors.New("connection reset")}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	_, err := a.Allocate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestAllocator_AllocateIn_ConcurrentCallersGetDistinctIDs(t *testing.T) {
	const callers = 64

	counters := newMemCounterStore()
	cfg := defaultAllocatorConfig()
	cfg.MaxRetries = 10_000
	cfg.Backoff = 200 * time.Microsecond
	a := NewAllocator(counters, staticOrgConfig{}, cfg, newTestMetrics(), testutil.MakeNoopLogger())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[model.BusinessID]struct{}, callers)
	)
	errs := make(chan error, callers)

	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.AllocateIn(context.Background(), "2025-2026", cfg.Defaults)
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, ids, callers)
	assert.Equal(t, int64(callers), counters.get("2025-2026"))
	assert.Contains(t, ids, model.BusinessID("SCHL-NA-NA-S0001"))
	assert.Contains(t, ids, model.BusinessID("SCHL-NA-NA-S0064"))
}

func TestAllocator_AllocateIn_CounterExhausted(t *testing.T) {
	counters := mocks.NewCounterStore(t)
	key := model.CounterKey{Namespace: model.AdmissionCounterNamespace, Scope: "2025-2026"}
	counters.On("Load", mock.Anything, key).Return(int64(9999), nil).Once()

	a := NewAllocator(counters, staticOrgConfig{}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	_, err := a.AllocateIn(context.Background(), "2025-2026", defaultAllocatorConfig().Defaults)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCounterExhausted)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	counters.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAllocator_AllocateIn_RetryBudget(t *testing.T) {
	counters := mocks.NewCounterStore(t)
	counters.On("Load", mock.Anything, mock.Anything).Return(int64(7), nil).Times(3)
	counters.On("CompareAndSwap", mock.Anything, mock.Anything, int64(7), int64(8)).Return(false, nil).Times(3)

	cfg := defaultAllocatorConfig()
	cfg.MaxRetries = 3
	a := NewAllocator(counters, staticOrgConfig{}, cfg, newTestMetrics(), testutil.MakeNoopLogger())

	_, err := a.AllocateIn(context.Background(), "2025-2026", cfg.Defaults)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.NotErrorIs(t, err, ErrCounterExhausted)
}

func TestAllocator_AllocateIn_RetriesAfterLostRace(t *testing.T) {
	counters := mocks.NewCounterStore(t)
	counters.On("Load", mock.Anything, mock.Anything).Return(int64(3), nil).Once()
	counters.On("CompareAndSwap", mock.Anything, mock.Anything, int64(3), int64(4)).Return(false, nil).Once()
	counters.On("Load", mock.Anything, mock.Anything).Return(int64(4), nil).Once()
	counters.On("CompareAndSwap", mock.Anything, mock.Anything, int64(4), int64(5)).Return(true, nil).Once()

	a := NewAllocator(counters, staticOrgConfig{}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	id, err := a.AllocateIn(context.Background(), "2025-2026", defaultAllocatorConfig().Defaults)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessID("SCHL-NA-NA-S0005"), id)
}

func TestAllocator_AllocateIn_StoreError(t *testing.T) {
	counters := mocks.NewCounterStore(t)
	counters.On("Load", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout")).Once()

	a := NewAllocator(counters, staticOrgConfig{}, defaultAllocatorConfig(), newTestMetrics(), testutil.MakeNoopLogger())

	_, err := a.AllocateIn(context.Background(), "2025-2026", defaultAllocatorConfig().Defaults)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestAllocator_Format(t *testing.T) {
	cfg := defaultAllocatorConfig()
	cfg.Width = 6
	a := NewAllocator(newMemCounterStore(), staticOrgConfig{}, cfg, newTestMetrics(), testutil.MakeNoopLogger())

	id, err := a.AllocateIn(context.Background(), "2025-2026", cfg.Defaults)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z]+-.+-.+-S\d{6}$`), id.String())
	assert.Equal(t, int64(999), maxCounterValue(3))
}
