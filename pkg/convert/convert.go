// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query parameters.

A malformed value is indistinguishable from a missing one: both yield the
caller's default.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def when it is empty or malformed.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}

// PositiveIntD is [ToIntD] that also rejects zero and negative values.
func PositiveIntD(str string, def int) int {
	if v := ToIntD(str, def); v > 0 {
		return v
	}
	return def
}
