package entity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SortField names a sortable task attribute as clients spell it.
type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortUpdatedAt   SortField = "updatedAt"
	SortDescription SortField = "description"
	SortCompleted   SortField = "completed"
)

// ErrInvalidSort is returned by ParseSort for an unknown field or direction.
var ErrInvalidSort = errors.New("invalid sortBy")

// Valid reports whether f is one of the known sort fields.
func (f SortField) Valid() bool {
	switch f {
	case SortCreatedAt, SortUpdatedAt, SortDescription, SortCompleted:
		return true
	}
	return false
}

// ListFilter selects and orders a page of one owner's tasks.
type ListFilter struct {
	// Completed restricts the list to done or open tasks. Nil means both.
	Completed *bool

	// Limit caps the page size. Zero means no limit.
	Limit int

	// Skip is a page index; the offset is Skip*Limit.
	Skip int

	SortBy SortField
	Desc   bool
}

// MaxSkip is the largest page index whose offset fits in an int.
func (f ListFilter) MaxSkip() int {
	if f.Limit <= 0 {
		return 0
	}
	return math.MaxInt / f.Limit
}

// Offset returns the number of rows to skip. Without a limit there are no pages.
// Page indexes past MaxSkip saturate at math.MaxInt instead of overflowing.
func (f ListFilter) Offset() int {
	if f.Limit <= 0 || f.Skip <= 0 {
		return 0
	}
	if f.Skip > f.MaxSkip() {
		return math.MaxInt
	}
	return f.Skip * f.Limit
}

// Key is a stable string form of the filter, used for cache keys.
func (f ListFilter) Key() string {
	completed := "any"
	if f.Completed != nil {
		completed = strconv.FormatBool(*f.Completed)
	}
	dir := "asc"
	if f.Desc {
		dir = "desc"
	}
	return fmt.Sprintf("c=%s|l=%d|o=%d|s=%s:%s", completed, f.Limit, f.Offset(), f.SortBy, dir)
}

// ParseSort parses "field" or "field:asc|desc". An empty string yields the default order.
func ParseSort(s string) (SortField, bool, error) {
	if s == "" {
		return SortCreatedAt, false, nil
	}

	name, dir, hasDir := strings.Cut(s, ":")
	field := SortField(name)
	if !field.Valid() {
		return "", false, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, name)
	}
	if !hasDir {
		return field, false, nil
	}
	switch strings.ToLower(dir) {
	case "asc":
		return field, false, nil
	case "desc":
		return field, true, nil
	default:
		return "", false, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, dir)
	}
}
