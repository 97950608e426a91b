// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reactive provides the small set of primitives the client uses to keep
derived state in step with its sources.

  - [Signal]: a mutable value with a version counter and subscribers.
  - [Computed]: a pure derivation over one or more sources, recomputed lazily
    on read when any source version moved.
  - [Effect]: a side effect re-run after a source changes. Effects are queued
    on a [Scheduler] and never run inside another effect or inside a write.

# Rules

A derivation must not write to a signal. Corrective writes belong in an
[Effect], which runs once the triggering write has settled.

All types are safe for concurrent use.
*/
package reactive

import "sync"

// Source is anything a derivation or effect can depend on.
type Source interface {
	// Version increases every time the observed value changes.
	Version() uint64

	// Subscribe registers fn to be called after every change.
	Subscribe(fn func()) (cancel func())
}

// subscribers is the listener registry shared by the primitives.
type subscribers struct {
	mu     sync.Mutex
	nextID uint64
	fns    map[uint64]func()
}

func (registry *subscribers) add(fn func()) func() {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.fns == nil {
		registry.fns = make(map[uint64]func())
	}

	id := registry.nextID
	registry.nextID++
	registry.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			registry.mu.Lock()
			delete(registry.fns, id)
			registry.mu.Unlock()
		})
	}
}

func (registry *subscribers) snapshot() []func() {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	fns := make([]func(), 0, len(registry.fns))
	for _, fn := range registry.fns {
		fns = append(fns, fn)
	}
	return fns
}

// # Signal

// Signal holds a value and notifies subscribers after it changes.
type Signal[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	equal   func(a, b T) bool
	subs    subscribers
}

// NewSignal creates a signal. Every [Signal.Set] counts as a change.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// NewComparableSignal creates a signal that ignores writes of an equal value.
func NewComparableSignal[T comparable](initial T) *Signal[T] {
	return &Signal[T]{
		value: initial,
		equal: func(a, b T) bool { return a == b },
	}
}

// Get returns the current value.
func (signal *Signal[T]) Get() T {
	signal.mu.RLock()
	defer signal.mu.RUnlock()
	return signal.value
}

// Version implements [Source].
func (signal *Signal[T]) Version() uint64 {
	signal.mu.RLock()
	defer signal.mu.RUnlock()
	return signal.version
}

// Set stores value and notifies subscribers once the lock is released.
func (signal *Signal[T]) Set(value T) {
	signal.mu.Lock()
	if signal.equal != nil && signal.equal(signal.value, value) {
		signal.mu.Unlock()
		return
	}
	signal.value = value
	signal.version++
	signal.mu.Unlock()

	for _, fn := range signal.subs.snapshot() {
		fn()
	}
}

// Update applies fn to the current value and stores the result.
func (signal *Signal[T]) Update(fn func(current T) T) {
	signal.Set(fn(signal.Get()))
}

// Subscribe implements [Source].
func (signal *Signal[T]) Subscribe(fn func()) func() {
	return signal.subs.add(fn)
}
