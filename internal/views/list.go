// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package views

import (
	"context"
	"errors"
	"sync"

	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/reactive"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/pkg/pagination"
	"github.com/taibuivan/expensa/pkg/slice"
)

// # Pagination Binding

// PageEvent is a page change coming from a paginator. PageIndex is 0-based
// and may be absent.
type PageEvent struct {
	PageIndex *int
	PageSize  int
}

// ServerPage translates the event into the 1-based page sent on the wire.
func ServerPage(event PageEvent) int {
	return pagination.FromUIIndex(event.PageIndex)
}

// # Filtered List

// FilteredList narrows an in-memory collection by a criterion.
//
// The zero criterion (or the one passed as all) keeps every item. An
// unmatched criterion yields an empty, non-nil slice.
type FilteredList[T any, C comparable] struct {
	source    *reactive.Signal[[]T]
	criterion *reactive.Signal[C]
	filtered  *reactive.Computed[[]T]
}

// NewFilteredList creates the list over items. match decides membership for
// every criterion other than all.
func NewFilteredList[T any, C comparable](items []T, all C, match func(item T, criterion C) bool) *FilteredList[T, C] {
	source := reactive.NewSignal(items)
	criterion := reactive.NewComparableSignal(all)

	filtered := reactive.NewComputed(func() []T {
		selected := criterion.Get()
		current := source.Get()
		if selected == all {
			return slice.Filter(current, func(T) bool { return true })
		}
		return slice.Filter(current, func(item T) bool { return match(item, selected) })
	}, source, criterion)

	return &FilteredList[T, C]{source: source, criterion: criterion, filtered: filtered}
}

// SetItems replaces the collection.
func (list *FilteredList[T, C]) SetItems(items []T) { list.source.Set(items) }

// Select changes the criterion.
func (list *FilteredList[T, C]) Select(criterion C) { list.criterion.Set(criterion) }

// Criterion returns the selected criterion.
func (list *FilteredList[T, C]) Criterion() C { return list.criterion.Get() }

// Items returns the filtered collection.
func (list *FilteredList[T, C]) Items() []T { return list.filtered.Get() }

// Source exposes the filtered result for effects.
func (list *FilteredList[T, C]) Source() reactive.Source { return list.filtered }

// # List View

// ErrSuperseded is returned by [ListView.Load] when a newer load was issued
// before this one completed. Its result was discarded.
var ErrSuperseded = errors.New("views: load superseded by a newer request")

// Loader fetches one page for a query.
type Loader[T any] func(ctx context.Context, query resource.ListQuery) (resource.Page[T], error)

// ListView holds one server page of a collection and the query that produced it.
//
// Every [ListView.Load] is tagged with a generation. A completion whose
// generation is older than the latest issued one is dropped, so rapid filter
// or page changes never let a slow response overwrite a newer one.
type ListView[T any] struct {
	load  Loader[T]
	query *reactive.Signal[resource.ListQuery]

	// revision moves after every accepted page, outside mu.
	revision *reactive.Signal[uint64]

	mu         sync.Mutex
	generation uint64
	items      []T
	total      int
}

// NewListView creates a view with the default query.
func NewListView[T any](load Loader[T]) *ListView[T] {
	return &ListView[T]{
		load: load,
		query: reactive.NewComparableSignal(resource.ListQuery{
			Filter: constants.FilterAll,
			Page:   constants.DefaultPage,
			Limit:  constants.DefaultLimit,
		}),
		revision: reactive.NewSignal[uint64](0),
		items:    []T{},
	}
}

// Query returns the current query.
func (view *ListView[T]) Query() resource.ListQuery { return view.query.Get() }

// QuerySource exposes the query for effects that reload on change.
func (view *ListView[T]) QuerySource() reactive.Source { return view.query }

// SetFilter changes the filter and goes back to the first page.
func (view *ListView[T]) SetFilter(filter string) {
	view.query.Update(func(current resource.ListQuery) resource.ListQuery {
		current.Filter = filter
		current.Page = constants.DefaultPage
		return current
	})
}

// SetPage applies a paginator event.
func (view *ListView[T]) SetPage(event PageEvent) {
	view.query.Update(func(current resource.ListQuery) resource.ListQuery {
		current.Page = ServerPage(event)
		if event.PageSize > 0 {
			current.Limit = event.PageSize
		}
		return current
	})
}

// Items returns the items of the last accepted page.
func (view *ListView[T]) Items() []T {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.items
}

// Total returns the server-side total of the last accepted page.
func (view *ListView[T]) Total() int {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.total
}

// Changes exposes accepted pages for effects.
func (view *ListView[T]) Changes() reactive.Source { return view.revision }

// Load fetches the page for the current query.
//
// A failed load leaves the previous page in place. A load overtaken by a
// newer one returns [ErrSuperseded] and changes nothing.
func (view *ListView[T]) Load(ctx context.Context) error {
	view.mu.Lock()
	view.generation++
	generation := view.generation
	view.mu.Unlock()

	page, err := view.load(ctx, view.query.Get())

	// ── Commit ────────────────────────────────────────────────────────────
	view.mu.Lock()
	if generation != view.generation {
		view.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		view.mu.Unlock()
		return err
	}

	view.items = page.Items
	if view.items == nil {
		view.items = []T{}
	}
	view.total = page.Total
	view.mu.Unlock()

	view.revision.Set(generation)
	return nil
}
