// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the page arithmetic shared by the client views
// and the development API.
//
// # Overview
//
// The wire uses 1-based pages. Views use 0-based page indices, translated by
// [FromUIIndex].
package pagination

import "github.com/taibuivan/expensa/pkg/pointer"

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page accepted by the development API.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds a 1-based page and a page size.
type Params struct {
	Page  int
	Limit int
}

// New clamps page and limit into the accepted ranges.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the index of the first item on the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FromUIIndex translates a 0-based UI page index into a 1-based page.
// A nil index means the first page.
func FromUIIndex(uiPageIndex *int) int {
	index := pointer.Fallback(uiPageIndex, -1)
	if index < 0 {
		return DefaultPage
	}
	return index + 1
}

// TotalPages returns how many pages total items span.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Window returns the slice of items on the requested page.
func Window[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}

	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
