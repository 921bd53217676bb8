package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
)

// memCounterStore is a linearizable in-memory CounterStore.
type memCounterStore struct {
	mu     sync.Mutex
	values map[model.CounterKey]int64
	swaps  int
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{values: make(map[model.CounterKey]int64)}
}

func (s *memCounterStore) Load(_ context.Context, key model.CounterKey) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memCounterStore) CompareAndSwap(_ context.Context, key model.CounterKey, current, next int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[key] != current {
		return false, nil
	}
	s.values[key] = next
	s.swaps++
	return true, nil
}

func (s *memCounterStore) set(scope string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[model.CounterKey{Namespace: model.AdmissionCounterNamespace, Scope: scope}] = value
}

func (s *memCounterStore) get(scope string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[model.CounterKey{Namespace: model.AdmissionCounterNamespace, Scope: scope}]
}

// staticOrgConfig returns a fixed OrgConfig or error.
type staticOrgConfig struct {
	cfg model.OrgConfig
	err error
}

func (s staticOrgConfig) Get(context.Context) (model.OrgConfig, error) {
	return s.cfg, s.err
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func defaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		EpochStartMonth: time.April,
		EpochStartDay:   1,
		Location:        time.UTC,
		Width:           4,
		MaxRetries:      25,
		Defaults:        model.OrgConfig{IDPrefix: "SCHL", LocationCode: "NA", BranchCode: "NA"},
	}
}

func validAdmission() model.StudentAdmission {
	return model.StudentAdmission{
		Email:         "asha.rao@example.org",
		Password:      "s3cret-pass",
		FullName:      "Asha Rao",
		ClassID:       "class-7b",
		FatherName:    "Ravi Rao",
		MotherName:    "Meena Rao",
		FatherMobile:  "+91 90000 00001",
		MotherMobile:  "+91 90000 00002",
		AdmissionYear: "2025",
		DOB:           "2013-06-14",
		Gender:        "female",
		BloodGroup:    "B+",
	}
}
