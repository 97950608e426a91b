// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reactive

import "sync"

// Computed is a memoized pure derivation over a fixed set of sources.
//
// The value is recomputed on [Computed.Get] only when at least one source
// version differs from the one seen at the last computation.
type Computed[T any] struct {
	mu      sync.Mutex
	compute func() T
	deps    []Source
	seen    []uint64
	value   T
	ready   bool
}

// NewComputed creates a derivation. compute must only read its sources.
func NewComputed[T any](compute func() T, deps ...Source) *Computed[T] {
	return &Computed[T]{
		compute: compute,
		deps:    deps,
		seen:    make([]uint64, len(deps)),
	}
}

// Get returns the derived value, recomputing it if a source moved.
func (computed *Computed[T]) Get() T {
	computed.mu.Lock()
	defer computed.mu.Unlock()

	stale := !computed.ready
	current := make([]uint64, len(computed.deps))
	for i, dep := range computed.deps {
		current[i] = dep.Version()
		if current[i] != computed.seen[i] {
			stale = true
		}
	}

	if stale {
		computed.value = computed.compute()
		computed.seen = current
		computed.ready = true
	}

	return computed.value
}

// Version implements [Source]. It moves whenever any dependency moves.
func (computed *Computed[T]) Version() uint64 {
	var sum uint64
	for _, dep := range computed.deps {
		sum += dep.Version()
	}
	return sum
}

// Subscribe implements [Source] by subscribing to every dependency.
func (computed *Computed[T]) Subscribe(fn func()) func() {
	cancels := make([]func(), 0, len(computed.deps))
	for _, dep := range computed.deps {
		cancels = append(cancels, dep.Subscribe(fn))
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
