package model

import (
	"context"
	"fmt"
)

// AdmissionCounterNamespace groups the counters that number student admissions.
const AdmissionCounterNamespace = "admission_numbers"

// CounterStore is an atomic counter primitive with compare-and-swap semantics.
// A counter that was never written loads as zero.
type CounterStore interface {
	Load(ctx context.Context, key CounterKey) (int64, error)
	// CompareAndSwap sets the counter to next only if it currently holds
	// current. It reports false when another writer got there first.
	CompareAndSwap(ctx context.Context, key CounterKey, current, next int64) (bool, error)
}

// CounterKey identifies one counter, e.g. admission_numbers/2024-2025.
type CounterKey struct {
	Namespace string
	Scope     string
}

// Path returns the logical location of the counter.
func (k CounterKey) Path() string {
	return fmt.Sprintf("counters/%s/%s", k.Namespace, k.Scope)
}

// BusinessID is a human-facing sequential identifier such as SCHL-NA-NA-S0004.
type BusinessID string

func (b BusinessID) String() string {
	return string(b)
}
