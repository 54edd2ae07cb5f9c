package query

import (
	"slices"
	"strings"
)

// Accessors extracts the fields Filter needs from a record.
type Accessors[T any] struct {
	// Code returns the record's own code. It is also the sort key.
	Code func(T) string

	// Name returns the record's display name.
	Name func(T) string

	// Parent returns the parent's code. Nil for root kinds, which
	// disables the scope filter.
	Parent func(T) string
}

// Filter keeps the records matching scope and keyword and sorts them by code.
//
// A blank scope or keyword means no restriction. A non-blank scope keeps
// records whose parent code equals it, ignoring case. A non-blank keyword
// keeps records whose code equals it ignoring case, or whose lowercased code
// or name contains the lowercased keyword. Both filters combine with AND.
//
// The result is never nil.
func Filter[T any](items []T, acc Accessors[T], scope, keyword string) []T {
	out := make([]T, 0, len(items))

	filterScope := acc.Parent != nil && !isBlank(scope)
	filterKeyword := !isBlank(keyword)
	lower := strings.ToLower(keyword)

	for _, item := range items {
		if filterScope && !strings.EqualFold(acc.Parent(item), scope) {
			continue
		}
		if filterKeyword && !matches(acc.Code(item), acc.Name(item), keyword, lower) {
			continue
		}
		out = append(out, item)
	}

	slices.SortFunc(out, func(a, b T) int {
		return strings.Compare(acc.Code(a), acc.Code(b))
	})
	return out
}

func matches(code, name, keyword, lower string) bool {
	return strings.EqualFold(code, keyword) ||
		strings.Contains(strings.ToLower(code), lower) ||
		strings.Contains(strings.ToLower(name), lower)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
