// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reactive_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/expensa/internal/platform/reactive"
)

/*
TestSignal_SetNotifies bumps the version and calls subscribers.
*/
func TestSignal_SetNotifies(t *testing.T) {
	signal := reactive.NewSignal(1)

	calls := 0
	cancel := signal.Subscribe(func() { calls++ })

	signal.Set(2)
	assert.Equal(t, 2, signal.Get())
	assert.Equal(t, uint64(1), signal.Version())
	assert.Equal(t, 1, calls)

	cancel()
	cancel()
	signal.Set(3)
	assert.Equal(t, 1, calls)
}

/*
TestComparableSignal_IgnoresEqualWrites keeps the version still.
*/
func TestComparableSignal_IgnoresEqualWrites(t *testing.T) {
	signal := reactive.NewComparableSignal("token")

	calls := 0
	signal.Subscribe(func() { calls++ })

	signal.Set("token")
	assert.Zero(t, signal.Version())
	assert.Zero(t, calls)

	signal.Update(func(current string) string { return current + "-2" })
	assert.Equal(t, "token-2", signal.Get())
	assert.Equal(t, 1, calls)
}

/*
TestComputed_RecomputesOnlyWhenSourcesMove memoizes between writes.
*/
func TestComputed_RecomputesOnlyWhenSourcesMove(t *testing.T) {
	items := reactive.NewSignal([]int{1, 2, 3})
	threshold := reactive.NewComparableSignal(2)

	runs := 0
	above := reactive.NewComputed(func() []int {
		runs++
		var out []int
		for _, item := range items.Get() {
			if item >= threshold.Get() {
				out = append(out, item)
			}
		}
		return out
	}, items, threshold)

	assert.Equal(t, []int{2, 3}, above.Get())
	assert.Equal(t, []int{2, 3}, above.Get())
	assert.Equal(t, 1, runs)

	threshold.Set(3)
	assert.Equal(t, []int{3}, above.Get())
	assert.Equal(t, 2, runs)

	threshold.Set(3)
	above.Get()
	assert.Equal(t, 2, runs)
}

/*
TestEffect_RunsAfterWriteSettles sees the new value and runs on first registration.
*/
func TestEffect_RunsAfterWriteSettles(t *testing.T) {
	scheduler := reactive.NewScheduler()
	signal := reactive.NewSignal("a")

	var seen []string
	effect := reactive.NewEffect(scheduler, func() {
		seen = append(seen, signal.Get())
	}, signal)

	signal.Set("b")
	assert.Equal(t, []string{"a", "b"}, seen)

	effect.Stop()
	signal.Set("c")
	assert.Equal(t, []string{"a", "b"}, seen)
}

/*
TestEffect_WriteInsideEffectIsNotReentrant queues the follow-up run instead of nesting it.
*/
func TestEffect_WriteInsideEffectIsNotReentrant(t *testing.T) {
	scheduler := reactive.NewScheduler()
	signal := reactive.NewComparableSignal("corrupt")

	depth, maxDepth, runs := 0, 0, 0
	reactive.NewEffect(scheduler, func() {
		depth++
		runs++
		if depth > maxDepth {
			maxDepth = depth
		}
		if signal.Get() == "corrupt" {
			signal.Set("")
		}
		depth--
	}, signal)

	assert.Equal(t, "", signal.Get())
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, maxDepth)
}

/*
TestSignal_ConcurrentWrites is race free.
*/
func TestSignal_ConcurrentWrites(t *testing.T) {
	signal := reactive.NewSignal(0)
	scheduler := reactive.NewScheduler()

	var mu sync.Mutex
	runs := 0
	reactive.NewEffect(scheduler, func() {
		mu.Lock()
		runs++
		mu.Unlock()
	}, signal)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal.Update(func(current int) int { return current + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), signal.Version())
	mu.Lock()
	assert.GreaterOrEqual(t, runs, 1)
	mu.Unlock()
}
