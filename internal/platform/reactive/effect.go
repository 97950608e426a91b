// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reactive

import (
	"sync"
	"sync/atomic"
)

// Scheduler runs queued effects one at a time, in order.
//
// Whichever goroutine finds the queue idle drains it; effects scheduled
// while draining (including by an effect) are appended and run afterwards.
type Scheduler struct {
	mu       sync.Mutex
	queue    []*Effect
	draining bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (scheduler *Scheduler) enqueue(effect *Effect) {
	scheduler.mu.Lock()
	if effect.queued {
		scheduler.mu.Unlock()
		return
	}
	effect.queued = true
	scheduler.queue = append(scheduler.queue, effect)

	if scheduler.draining {
		scheduler.mu.Unlock()
		return
	}
	scheduler.draining = true
	scheduler.mu.Unlock()

	scheduler.drain()
}

func (scheduler *Scheduler) drain() {
	for {
		scheduler.mu.Lock()
		if len(scheduler.queue) == 0 {
			scheduler.draining = false
			scheduler.mu.Unlock()
			return
		}

		effect := scheduler.queue[0]
		scheduler.queue = scheduler.queue[1:]
		effect.queued = false
		scheduler.mu.Unlock()

		effect.execute()
	}
}

// Effect re-runs a side effect after any of its sources change.
type Effect struct {
	scheduler *Scheduler
	fn        func()
	cancels   []func()
	stopped   atomic.Bool

	// guarded by scheduler.mu
	queued bool
}

// NewEffect registers fn on the scheduler and runs it once.
func NewEffect(scheduler *Scheduler, fn func(), deps ...Source) *Effect {
	effect := &Effect{scheduler: scheduler, fn: fn}

	for _, dep := range deps {
		effect.cancels = append(effect.cancels, dep.Subscribe(effect.schedule))
	}

	effect.schedule()
	return effect
}

// Stop detaches the effect from its sources. Pending runs are dropped.
func (effect *Effect) Stop() {
	if effect.stopped.Swap(true) {
		return
	}
	for _, cancel := range effect.cancels {
		cancel()
	}
}

func (effect *Effect) schedule() {
	if effect.stopped.Load() {
		return
	}
	effect.scheduler.enqueue(effect)
}

func (effect *Effect) execute() {
	if effect.stopped.Load() {
		return
	}
	effect.fn()
}
